// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawPublication is one publication record as fetched from the source,
// before validation. List stubs carry truncated author strings; a detail
// fetch replaces them when it succeeds. Defaults for absent fields are
// applied by the classifier, not here. Per prd002-index-computation R1.
type RawPublication struct {
	// Title is the publication title. May be empty.
	Title string `json:"title" yaml:"title"`

	// Authors is the raw author field. May be empty or truncated.
	Authors string `json:"authors" yaml:"authors"`

	// Year is the unparsed publication year field. Empty means the source
	// reported none.
	Year string `json:"year" yaml:"year"`

	// CitedBy is the citation count; zero when the source reported none.
	CitedBy int `json:"cited_by" yaml:"cited_by"`

	// CitationID is the handle for a per-publication detail fetch. Empty
	// when the source offers no detail view for this record.
	CitationID string `json:"citation_id,omitempty" yaml:"citation_id,omitempty"`
}

// Contribution is one publication's validated, scored share of the L-index
// sum. Built once by the classifier and never mutated.
type Contribution struct {
	// Score is citations / (authors * age).
	Score float64 `json:"score" yaml:"score"`

	// Title is the publication title ("Title Not Available" when the
	// source had none).
	Title string `json:"title" yaml:"title"`

	// Year is the parsed publication year.
	Year int `json:"year" yaml:"year"`

	// Citations is the non-negative citation count used for the score.
	Citations int `json:"citations" yaml:"citations"`

	// Authors is the estimated author count (at least 1).
	Authors int `json:"authors" yaml:"authors"`

	// Age is the publication age in years (at least 1).
	Age int `json:"age" yaml:"age"`
}
