package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int
	Current   int
	Succeeded int
	Skipped   int
	Failed    int

	// Placeholders counts thumbnails that fell back to a placeholder
	// across all storyboards.
	Placeholders int
}

// ExitCode is the process status for the run: 1 when any file failed.
func (s *RunStats) ExitCode() int {
	if s.Failed > 0 {
		return 1
	}
	return 0
}
