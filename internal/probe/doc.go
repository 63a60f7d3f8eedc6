// Package probe runs ffprobe and turns its loosely typed JSON into
// strongly typed records. Omitted fields, JSON null, empty strings and
// ffprobe's "N/A" marker all become absent [opt.Value]s here, at the parse
// boundary, so no caller has to guess whether a field was present.
//
// Besides the one-shot format/stream probe, the package streams per-frame
// interlace flags ([FrameSampler]) and performs the slow full-decode frame
// count ([CountFrames]) used when a container has no usable duration.
package probe
