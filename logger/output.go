package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Scores, integration summaries
	OutputErrors                        // Document-fatal errors

	// Level 1 (-v)
	OutputProgress     // Per-document progress in corpus runs
	OutputItemFailures // Skipped spans and edges

	// Level 2 (-vv)
	OutputEdgeOutcomes // Every edge outcome, not just failures
	OutputConfig       // Config values loaded/applied

	// Level 3 (-vvv)
	OutputResolution // Which resolution tier resolved each span
	OutputSQLQueries // Store statements
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:      VerbosityUser,
	OutputErrors:       VerbosityUser,
	OutputProgress:     VerbosityInfo,
	OutputItemFailures: VerbosityInfo,
	OutputEdgeOutcomes: VerbosityDebug,
	OutputConfig:       VerbosityDebug,
	OutputResolution:   VerbosityTrace,
	OutputSQLQueries:   VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputProgress:     "progress",
	OutputItemFailures: "item-failures",
	OutputEdgeOutcomes: "edge-outcomes",
	OutputConfig:       "config",
	OutputResolution:   "resolution",
	OutputSQLQueries:   "sql",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
