// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders computation results as console summaries, YAML
// documents, and printable PDF reports.
// Implements: prd004-reporting (R1-R4);
//
//	docs/ARCHITECTURE § Reporting.
package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/lindex/pkg/types"
)

// defaultTopContributions caps the contribution table when the caller
// does not configure one (default 15).
const defaultTopContributions = 15

var (
	unsafeChars    = regexp.MustCompile(`[^\w.\-]+`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// WriteSummary prints the human-readable results block (R1).
func WriteSummary(w io.Writer, result types.ComputationResult) {
	fmt.Fprintln(w, "--- Results Summary ---")
	if result.RateLimited {
		fmt.Fprintln(w, "note: the source rate limited this run; results may be based on incomplete data")
	}
	fmt.Fprintf(w, "Author:      %s\n", orNA(result.Author.Name))
	fmt.Fprintf(w, "Affiliation: %s\n", orNA(result.Author.Affiliation))
	fmt.Fprintf(w, "Interests:   %s\n", orNA(strings.Join(result.Author.Interests, ", ")))
	fmt.Fprintf(w, "Profile:     %s\n", orNA(result.Author.ProfileURL()))
	if result.Author.TotalCitations != nil {
		fmt.Fprintf(w, "Citations:   %d\n", *result.Author.TotalCitations)
	}
	fmt.Fprintf(w, "L-index:     %s\n", indexText(result.Index))
	fmt.Fprintf(w, "Basis:       the %d most cited publications fetched from the source\n", result.Fetched)
	fmt.Fprintf(w, "Processed:   %d / %d fetched\n", result.Processed, result.Fetched)
	if n := result.Skips.Total(); n > 0 {
		fmt.Fprintf(w, "Skipped:     %d (%s)\n", n, skipBreakdown(result.Skips))
	}
}

// SanitizeFilename rewrites name into a form safe for filesystems:
// runs of characters outside [A-Za-z0-9_.-] become single underscores.
func SanitizeFilename(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "invalid_name"
	}
	return s
}

// BaseName returns the filename stem shared by all report files for one
// run: author name and identifier, the size of the citation window the
// run was based on, a rate-limit tag when the data is partial, and the
// run date (R3).
func BaseName(result types.ComputationResult, maxPubs int, when time.Time) string {
	id := result.Author.ID
	if id == "" {
		id = "NoID"
	}
	stem := SanitizeFilename(result.Author.Name + "_" + id)
	tag := ""
	if result.RateLimited {
		tag = "_RATE_LIMITED"
	}
	return fmt.Sprintf("%s_L-Index_BasedOn%d%s_%s", stem, maxPubs, tag, when.Format("2006-01-02"))
}

func skipBreakdown(skips types.SkipLedger) string {
	reasons := make([]string, 0, len(skips))
	for r := range skips {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", r, skips[types.SkipReason(r)]))
	}
	return strings.Join(parts, ", ")
}

func indexText(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func effectiveTopN(n int) int {
	if n <= 0 {
		return defaultTopContributions
	}
	return n
}
