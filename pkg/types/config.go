package types

// Mode selects what the runner does with renumbered text.
type Mode string

const (
	// ModePrint writes every result to the output stream.
	ModePrint Mode = "print"
	// ModeList writes the path of every file whose content would change.
	ModeList Mode = "list"
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = "write"
)

// SummaryFormat selects how the per-run summary is printed.
type SummaryFormat string

const (
	SummaryNone SummaryFormat = ""
	SummaryYAML SummaryFormat = "yaml"
	SummaryJSON SummaryFormat = "json"
)

// RunnerConfig holds settings for processing stdin or a list of files.
type RunnerConfig struct {
	// Mode selects print, list or write behaviour (default print).
	Mode Mode `json:"mode" yaml:"mode"`

	// Summary selects the format of the summary printed to stderr after the
	// run. Empty disables it.
	Summary SummaryFormat `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// JournalConfig holds settings for the optional run journal.
type JournalConfig struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of records returned by list (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all settings read from flags, environment and config file.
type Config struct {
	Verbose bool          `json:"verbose" yaml:"verbose"`
	Runner  RunnerConfig  `json:"runner" yaml:"runner"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}
