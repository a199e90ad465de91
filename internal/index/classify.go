// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"strconv"
	"strings"

	"github.com/pdiddy/lindex/internal/metrics"
	"github.com/pdiddy/lindex/pkg/types"
)

const (
	// minYear is the oldest publication year accepted as plausible.
	minYear = 1800

	// yearSlack accepts in-press records dated slightly in the future.
	yearSlack = 2

	// missingTitle stands in for an absent title in reports.
	missingTitle = "Title Not Available"
)

// Classify validates one raw record and converts it into a scored
// contribution (R1, R2). The returned reason is empty on success and
// names the exclusion otherwise. Validation applies in order: empty
// author field, missing year, unparseable or implausible year. Absent
// citation counts already arrive as zero; negatives are coerced to zero.
// An author field the estimator cannot read counts as one author.
func Classify(raw types.RawPublication, currentYear int, largeGroupKeywords []string) (types.Contribution, types.SkipReason) {
	if raw.Authors == "" {
		return types.Contribution{}, types.SkipAuthorFieldEmpty
	}
	if raw.Year == "" {
		return types.Contribution{}, types.SkipYearMissing
	}
	year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
	if err != nil || year < minYear || year > currentYear+yearSlack {
		return types.Contribution{}, types.SkipYearInvalid
	}

	citations := raw.CitedBy
	if citations < 0 {
		citations = 0
	}

	authors, ok := metrics.EstimateAuthorCount(raw.Authors, largeGroupKeywords)
	if !ok {
		authors = 1
	}

	age := currentYear - year + 1
	if age < 1 {
		age = 1
	}

	title := raw.Title
	if title == "" {
		title = missingTitle
	}

	return types.Contribution{
		Score:     float64(citations) / float64(authors*age),
		Title:     title,
		Year:      year,
		Citations: citations,
		Authors:   authors,
		Age:       age,
	}, ""
}
