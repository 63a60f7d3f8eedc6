// Package ffmpeg builds and executes the ffmpeg commands that capture one
// still frame per storyboard slot.
//
// Types:
//   - Request: what to capture (path, stream, timestamp or frame ordinal,
//     capture mode, pipe codec).
//   - RetryState: one retry per slot at a nearby position, with the
//     timestamp fix enabled when stderr shows broken timestamps.
//   - Extractor: runs ffmpeg and decodes the piped frame.
//
// Functions:
//   - Build(bin, Request, *RetryState) → []string
//   - Execute(ctx, args, stdout, verbose) → ExecResult
//   - Classify(stderr) → human reason for a failed capture
package ffmpeg
