package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lindex/0.1"). Per prd003-scholar-client R2.4.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScholarConfig holds settings for the profile source client.
// Per prd003-scholar-client R2.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates requests to the profile API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of backoff attempts after a rate-limited
	// call before the transport gives up (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolutionConfig holds settings for the author resolution engine.
// Per prd001-author-resolution R2.2, R3.3-R3.4.
type ResolutionConfig struct {
	// SearchCap is the maximum number of search candidates examined
	// (default 10).
	SearchCap int `json:"search_cap" yaml:"search_cap"`

	// MultiThreshold is the minimum name similarity accepted when more
	// than one candidate was retrieved (default 0.85).
	MultiThreshold float64 `json:"multi_threshold" yaml:"multi_threshold"`

	// SingleThreshold is the minimum name similarity accepted when
	// exactly one candidate was retrieved (default 0.75).
	SingleThreshold float64 `json:"single_threshold" yaml:"single_threshold"`
}

// IndexConfig holds settings for the index computation engine.
// Per prd002-index-computation R2.1, R2.6.
type IndexConfig struct {
	// MaxPublications bounds how many publication stubs are fetched
	// (default 100). The index is a lower bound for authors with more.
	MaxPublications int `json:"max_publications" yaml:"max_publications"`

	// SortKey orders the publication list at the source (default
	// "citedby", most cited first).
	SortKey string `json:"sort_key" yaml:"sort_key"`

	// LargeGroupKeywords overrides the group-authorship keyword list used
	// by author-count estimation. Nil keeps the built-in list.
	LargeGroupKeywords []string `json:"large_group_keywords,omitempty" yaml:"large_group_keywords,omitempty"`
}

// ReportConfig holds settings for report generation.
// Per prd004-reporting R1.2, R3.1.
type ReportConfig struct {
	// OutputDir is the directory report files are written to
	// (default "reports").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// TopContributions is how many ranked contributions the written
	// reports include (default 15).
	TopContributions int `json:"top_contributions" yaml:"top_contributions"`

	// PDF controls whether a PDF report is rendered alongside the YAML
	// report (default true).
	PDF bool `json:"pdf" yaml:"pdf"`
}

// ArchiveConfig holds settings for the run-history store.
// Per prd005-run-archive R1.1.
type ArchiveConfig struct {
	// Path is the SQLite database file (default "lindex.db").
	Path string `json:"path" yaml:"path"`

	// Disabled turns run recording off.
	Disabled bool `json:"disabled" yaml:"disabled"`
}
