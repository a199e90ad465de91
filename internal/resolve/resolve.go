// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve implements the author resolution engine: routing a raw
// query to an identifier lookup or a name search, scoring candidates by
// name similarity, and enriching the accepted profile.
// Implements: prd001-author-resolution (R1-R4);
//
//	docs/ARCHITECTURE § Resolution.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/lindex/internal/metrics"
	"github.com/pdiddy/lindex/pkg/types"
)

// Source is the slice of the profile API that resolution consumes.
type Source interface {
	// LookupAuthor fetches the profile candidate for a known identifier.
	LookupAuthor(ctx context.Context, id string) (types.CandidateAuthor, error)

	// SearchAuthors returns up to limit candidates for a name. On a
	// mid-sequence failure it returns the candidates gathered so far
	// together with the error.
	SearchAuthors(ctx context.Context, name string, limit int) ([]types.CandidateAuthor, error)

	// FillProfile enriches a resolved author in place.
	FillProfile(ctx context.Context, a *types.Author) error
}

// idPattern matches a bare profile identifier: exactly twelve word or
// hyphen characters (e.g. "AbCdEfGh-Jk1"). Anything else is a name query.
var idPattern = regexp.MustCompile(`^[\w-]{12}$`)

const (
	defaultSearchCap       = 10
	defaultMultiThreshold  = 0.85
	defaultSingleThreshold = 0.75
)

// Resolve turns a free-form query into a resolved author (R1). The boolean
// reports whether a non-fatal call latched a rate-limit signal; callers
// fold it into the run's partial flag. Fatal outcomes wrap
// types.ErrNotFound, types.ErrRateLimited, or the underlying lookup fault.
// Warnings are printed to w.
func Resolve(ctx context.Context, query string, src Source, cfg types.ResolutionConfig, w io.Writer) (types.Author, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Author{}, false, fmt.Errorf("empty query: %w", types.ErrNotFound)
	}

	var (
		author      types.Author
		rateLimited bool
	)
	if idPattern.MatchString(query) {
		cand, err := src.LookupAuthor(ctx, query)
		switch {
		case errors.Is(err, types.ErrRateLimited):
			return types.Author{}, true, fmt.Errorf("resolving %q: %w", query, err)
		case errors.Is(err, types.ErrNotFound):
			return types.Author{}, false, fmt.Errorf("resolving %q: %w", query, err)
		case err != nil:
			return types.Author{}, false, fmt.Errorf("looking up author %q: %w", query, err)
		}
		if cand.ID == "" {
			return types.Author{}, false, fmt.Errorf("lookup record for %q lacks an identifier: %w", query, types.ErrNotFound)
		}
		author = types.Author{Name: cand.Name, ID: cand.ID, Affiliation: cand.Affiliation}
	} else {
		cand, limited, err := searchBest(ctx, query, src, cfg, w)
		if err != nil {
			return types.Author{}, limited, err
		}
		rateLimited = limited
		author = types.Author{Name: cand.Name, ID: cand.ID, Affiliation: cand.Affiliation}
	}

	// Enrichment is best-effort: a rate limit latches, anything else is
	// only a warning (R4.2).
	if err := src.FillProfile(ctx, &author); err != nil {
		if errors.Is(err, types.ErrRateLimited) {
			rateLimited = true
			fmt.Fprintf(w, "warning: profile fetch rate limited; continuing with partial details\n")
		} else {
			fmt.Fprintf(w, "warning: could not fetch full profile: %v\n", err)
		}
	}
	return author, rateLimited, nil
}

// searchBest collects candidates for a name query and picks the most
// similar one (R2, R3). A rate limit mid-search is latched, not fatal,
// unless it left no identifiable candidate to evaluate.
func searchBest(ctx context.Context, query string, src Source, cfg types.ResolutionConfig, w io.Writer) (types.CandidateAuthor, bool, error) {
	searchCap := cfg.SearchCap
	if searchCap <= 0 {
		searchCap = defaultSearchCap
	}

	candidates, err := src.SearchAuthors(ctx, query, searchCap)
	rateLimited := false
	if err != nil {
		if errors.Is(err, types.ErrRateLimited) {
			rateLimited = true
			fmt.Fprintf(w, "warning: author search rate limited after %d candidates\n", len(candidates))
		} else {
			fmt.Fprintf(w, "warning: author search failed after %d candidates: %v\n", len(candidates), err)
		}
	}
	if len(candidates) == 0 {
		if rateLimited {
			return types.CandidateAuthor{}, true, fmt.Errorf("author search for %q: %w", query, types.ErrRateLimited)
		}
		return types.CandidateAuthor{}, false, fmt.Errorf("no candidates for %q: %w", query, types.ErrNotFound)
	}

	// Candidates without an identifier cannot be resolved (R2.4).
	var usable []types.CandidateAuthor
	for _, c := range candidates {
		if c.ID != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		if rateLimited {
			return types.CandidateAuthor{}, true, fmt.Errorf("author search for %q: %w", query, types.ErrRateLimited)
		}
		return types.CandidateAuthor{}, false, fmt.Errorf("no identifiable candidates for %q: %w", query, types.ErrNotFound)
	}

	// Highest similarity wins; the first seen keeps ties (R3.2).
	best := -1
	bestScore := 0.0
	for i, c := range usable {
		if c.Name == "" {
			continue
		}
		if score := metrics.Similarity(query, c.Name); best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	// The bar is lower when the search was unambiguous (R3.3-R3.4). The
	// count basis is identifiable candidates; rows already discarded do
	// not make a search ambiguous.
	threshold := cfg.MultiThreshold
	if threshold <= 0 {
		threshold = defaultMultiThreshold
	}
	if len(usable) == 1 {
		threshold = cfg.SingleThreshold
		if threshold <= 0 {
			threshold = defaultSingleThreshold
		}
	}
	if best < 0 || bestScore < threshold {
		return types.CandidateAuthor{}, rateLimited,
			fmt.Errorf("best candidate for %q scored %.2f, below %.2f: %w", query, bestScore, threshold, types.ErrNotFound)
	}
	return usable[best], rateLimited, nil
}
