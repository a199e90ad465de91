// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SkipReason labels why one publication was excluded from the L-index sum.
// Per prd002-index-computation R1.5.
type SkipReason string

const (
	// SkipAuthorFieldEmpty marks records whose author field was empty.
	SkipAuthorFieldEmpty SkipReason = "author_field_empty"

	// SkipYearMissing marks records with no year field at all.
	SkipYearMissing SkipReason = "year_missing"

	// SkipYearInvalid marks records whose year failed to parse or fell
	// outside the plausible range.
	SkipYearInvalid SkipReason = "year_invalid"

	// SkipOtherError marks records lost to an unexpected per-item fault.
	SkipOtherError SkipReason = "error"

	// SkipHalted marks records never attempted because a rate-limit halt
	// ended the run early. Recorded by the engine, never by the classifier.
	SkipHalted SkipReason = "halted"
)

// SkipLedger tallies excluded publications by reason.
type SkipLedger map[SkipReason]int

// Add records n further exclusions under reason. Non-positive n is ignored.
func (l SkipLedger) Add(reason SkipReason, n int) {
	if n <= 0 {
		return
	}
	l[reason] += n
}

// Total returns the number of excluded publications across all reasons,
// including the halted entry.
func (l SkipLedger) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// ComputationResult is the immutable outcome of one L-index run.
// Per prd002-index-computation R4: Processed plus Skips.Total() never
// exceeds Fetched, and equals it whenever a rate-limit halt occurred.
type ComputationResult struct {
	// Index is the final L-index value, ln(1 + RawSum). Nil when the run
	// failed before an index could be computed.
	Index *float64 `json:"index" yaml:"index"`

	// Author is the resolved author; on failure it carries whatever
	// partial details resolution gathered.
	Author Author `json:"author" yaml:"author"`

	// RawSum is the sum of contribution scores.
	RawSum float64 `json:"raw_sum" yaml:"raw_sum"`

	// Processed counts publications that contributed to the sum.
	Processed int `json:"processed" yaml:"processed"`

	// Fetched counts publication stubs retrieved from the source.
	Fetched int `json:"fetched" yaml:"fetched"`

	// Contributions holds the scored publications, highest score first;
	// ties keep retrieval order.
	Contributions []Contribution `json:"contributions" yaml:"contributions"`

	// RateLimited reports whether any collaborator call hit the source's
	// rate limit during the run. A present Index with RateLimited true is
	// a lower bound, not the full value.
	RateLimited bool `json:"rate_limited" yaml:"rate_limited"`

	// Skips tallies excluded publications by reason.
	Skips SkipLedger `json:"skips" yaml:"skips"`
}

// Top returns the n highest-scored contributions, or all of them when n is
// not positive or exceeds the total.
func (r ComputationResult) Top(n int) []Contribution {
	if n <= 0 || n >= len(r.Contributions) {
		return r.Contributions
	}
	return r.Contributions[:n]
}
