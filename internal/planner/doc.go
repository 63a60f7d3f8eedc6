// Package planner chooses where in a video each storyboard thumbnail is
// captured.
//
// Three modes exist:
//   - ModeSeek: duration known; slot i is captured at (i+0.5)*duration/count
//     with an indexed seek.
//   - ModeSequential: same timestamps, but the duration was overridden or
//     frame-by-frame decoding was requested, so frames are reached by
//     decoding from the start (output seeking).
//   - ModeOrdinal: duration unknown; slots are frame ordinals spread over
//     the stream's frame count, which may first have to be counted by a
//     full decode.
//
// The two degraded modes are slow and callers are expected to warn when a
// schedule is not ModeSeek.
package planner
