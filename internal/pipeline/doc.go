// Package pipeline runs a batch over the command-line inputs: it expands
// directories into media files, probes and interprets each file, detects
// its scan type, and then either prints the metadata report or builds and
// writes a storyboard. Per-file failures are logged and counted; they never
// stop the batch.
package pipeline
