// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lindex/pkg/types"
)

// reportDocument is the on-disk YAML shape of one computation.
type reportDocument struct {
	GeneratedAt time.Time            `yaml:"generated_at"`
	Query       string               `yaml:"query"`
	Author      types.Author         `yaml:"author"`
	ProfileURL  string               `yaml:"profile_url,omitempty"`
	LIndex      *float64             `yaml:"l_index"`
	RawSum      float64              `yaml:"raw_sum"`
	Fetched     int                  `yaml:"fetched"`
	Processed   int                  `yaml:"processed"`
	RateLimited bool                 `yaml:"rate_limited"`
	Skips       types.SkipLedger     `yaml:"skips,omitempty"`
	Top         []types.Contribution `yaml:"top_contributions,omitempty"`
}

// WriteYAML writes the structured report for one computation (R2). Only
// the top topN contributions are exported; zero means the default cap.
func WriteYAML(path, query string, result types.ComputationResult, topN int, when time.Time) error {
	doc := reportDocument{
		GeneratedAt: when,
		Query:       query,
		Author:      result.Author,
		ProfileURL:  result.Author.ProfileURL(),
		LIndex:      result.Index,
		RawSum:      result.RawSum,
		Fetched:     result.Fetched,
		Processed:   result.Processed,
		RateLimited: result.RateLimited,
		Skips:       result.Skips,
		Top:         result.Top(effectiveTopN(topN)),
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
