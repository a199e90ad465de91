// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index aggregates an author's publication record into the
// L-index. Each publication contributes citations/(authors*age); the
// index is ln(1+sum) over the retrieved window.
// Implements: prd002-index-computation (R1-R5);
//
//	docs/ARCHITECTURE § Index Aggregation.
package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/lindex/internal/resolve"
	"github.com/pdiddy/lindex/pkg/types"
)

const (
	defaultMaxPublications = 100
	defaultSortKey         = "citedby"
)

// Source is the slice of the profile API the calculator consumes:
// author resolution plus the publication list and detail operations.
type Source interface {
	resolve.Source

	// Publications retrieves up to limit publication stubs for the
	// author, ordered by sortKey at the source.
	Publications(ctx context.Context, authorID, sortKey string, limit int) ([]types.RawPublication, error)

	// PublicationDetail retrieves the full record behind a stub and
	// merges it over the stub's fields.
	PublicationDetail(ctx context.Context, stub types.RawPublication) (types.RawPublication, error)
}

// runState tracks the aggregation loop (R4.2). A run either exhausts the
// publication list or stops at the first latched rate limit; there is no
// other early exit.
type runState int

const (
	running runState = iota
	haltedByRateLimit
	completed
)

// Calculator drives one L-index computation end to end: resolution,
// publication retrieval, per-item classification, aggregation.
type Calculator struct {
	Source     Source
	Resolution types.ResolutionConfig
	Index      types.IndexConfig

	// now supplies the clock for the current year; tests fix it.
	now func() time.Time

	// classify is swapped in tests to exercise per-item fault recovery.
	classify func(types.RawPublication, int, []string) (types.Contribution, types.SkipReason)
}

// New returns a Calculator reading from src.
func New(src Source, rcfg types.ResolutionConfig, icfg types.IndexConfig) *Calculator {
	return &Calculator{Source: src, Resolution: rcfg, Index: icfg}
}

// Calculate computes the L-index for a free-form author query. Fatal
// failures (unresolvable author, unavailable publication list, context
// cancellation) leave the index unset and return an error alongside
// whatever author details were gathered (R4.4). Anything less severe is
// absorbed into the skip ledger so one bad record never aborts a run.
// Progress and warnings are written to w.
func (c *Calculator) Calculate(ctx context.Context, query string, w io.Writer) (types.ComputationResult, error) {
	result := types.ComputationResult{Skips: types.SkipLedger{}}

	author, rateLimited, err := resolve.Resolve(ctx, query, c.Source, c.Resolution, w)
	result.Author = author
	result.RateLimited = rateLimited
	if err != nil {
		return result, fmt.Errorf("resolving author: %w", err)
	}
	fmt.Fprintf(w, "resolved: %s (%s)\n", author.Name, author.ID)

	limit := c.Index.MaxPublications
	if limit <= 0 {
		limit = defaultMaxPublications
	}
	sortKey := c.Index.SortKey
	if sortKey == "" {
		sortKey = defaultSortKey
	}

	pubs, err := c.Source.Publications(ctx, author.ID, sortKey, limit)
	if err != nil {
		if errors.Is(err, types.ErrRateLimited) {
			result.RateLimited = true
		}
		return result, fmt.Errorf("fetching publications: %w", err)
	}
	result.Fetched = len(pubs)
	if len(pubs) == 0 {
		fmt.Fprintf(w, "no publications found for %s\n", author.Name)
	} else {
		fmt.Fprintf(w, "fetched %d publications\n", len(pubs))
	}

	currentYear := c.yearNow()
	state := running
	sum := 0.0
	var contributions []types.Contribution
	for i, stub := range pubs {
		// A latched rate limit halts the run before the next attempt
		// (R4.2); everything not yet attempted lands in the ledger.
		if result.RateLimited {
			result.Skips.Add(types.SkipHalted, len(pubs)-i)
			state = haltedByRateLimit
			break
		}

		raw, err := c.Source.PublicationDetail(ctx, stub)
		if err != nil {
			switch {
			case errors.Is(err, types.ErrRateLimited):
				// The in-flight item was never fully retrieved, so it
				// counts as halted too.
				result.RateLimited = true
				result.Skips.Add(types.SkipHalted, len(pubs)-i)
				state = haltedByRateLimit
			case ctx.Err() != nil:
				return result, fmt.Errorf("fetching publication details: %w", err)
			default:
				fmt.Fprintf(w, "  warning: detail fetch failed, using list record: %v\n", err)
				raw = stub
			}
			if state == haltedByRateLimit {
				break
			}
		}

		contribution, reason := c.classifyItem(raw, currentYear)
		if reason != "" {
			result.Skips.Add(reason, 1)
			continue
		}
		sum += contribution.Score
		contributions = append(contributions, contribution)
	}
	if state == running {
		state = completed
	}
	if state == haltedByRateLimit {
		fmt.Fprintf(w, "halted by rate limit: %d publications not attempted\n", result.Skips[types.SkipHalted])
	}

	// Highest score first; ties keep retrieval order.
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Score > contributions[j].Score
	})

	index := 0.0
	if sum > 0 {
		index = math.Log(sum + 1)
	}
	result.Index = &index
	result.RawSum = sum
	result.Processed = len(contributions)
	result.Contributions = contributions
	return result, nil
}

// classifyItem runs one record through the classifier, recovering a
// panic into the error ledger entry so a malformed record cannot abort
// the run (R4.3).
func (c *Calculator) classifyItem(raw types.RawPublication, currentYear int) (contribution types.Contribution, reason types.SkipReason) {
	defer func() {
		if r := recover(); r != nil {
			contribution, reason = types.Contribution{}, types.SkipOtherError
		}
	}()
	fn := c.classify
	if fn == nil {
		fn = Classify
	}
	return fn(raw, currentYear, c.Index.LargeGroupKeywords)
}

func (c *Calculator) yearNow() int {
	if c.now != nil {
		return c.now().Year()
	}
	return time.Now().Year()
}
