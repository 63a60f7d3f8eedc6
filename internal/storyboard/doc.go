// Package storyboard assembles a contact sheet for one video: the metadata
// report as a header, a grid of thumbnails captured across the video, and
// an optional footer banner.
//
// A Builder plans capture positions, extracts frames concurrently through
// an Extractor, lays the sheet out and composites it. Thumbnails are held
// by slot index, so the grid is in timestamp order whatever order the
// extractions finish in. A slot whose capture fails twice is drawn as a
// placeholder; the storyboard only fails when no slot could be captured.
package storyboard
