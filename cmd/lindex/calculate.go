package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lindex/internal/archive"
	"github.com/pdiddy/lindex/internal/index"
	"github.com/pdiddy/lindex/internal/report"
	"github.com/pdiddy/lindex/internal/scholar"
	"github.com/pdiddy/lindex/internal/secrets"
	"github.com/pdiddy/lindex/pkg/types"
)

const defaultUserAgent = "lindex/0.1"

var calculateCmd = &cobra.Command{
	Use:   "calculate [author name or profile ID]",
	Short: "Compute the L-index for one author",
	Long: `Calculate resolves an author on Google Scholar (by name or by profile
identifier), retrieves their most cited publications, and computes the
L-index: ln(1 + sum of citations/(authors*age)) over the retrieved window.

Profile identifiers are the 12-character "user=" value in a Scholar profile
URL; anything else is treated as a name search. Name matches below the
similarity threshold are rejected, so pass the profile ID directly when the
name is ambiguous.

Notes:
  - Author counts are estimated from the raw author string; "et al" and
    collaboration keywords inflate the estimate.
  - The calculation uses the N most cited publications (--max-publications,
    default 100). Only compare authors computed with the same window.
  - Small windows underestimate the index; 100 publications capture the
    bulk of it even for authors with many hundreds of papers.
  - Heavy use can trigger source rate limits (HTTP 429). The run halts,
    reports partial results, and tags the report files; wait before retrying.
  - PDF reports use latin-1 encoding, so some characters are replaced.`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().Int("max-publications", 100, "how many of the most cited publications to retrieve")
	calculateCmd.Flags().String("sort", "citedby", "publication list order: citedby or pubdate")
	calculateCmd.Flags().Int("search-cap", 10, "maximum author search candidates to evaluate")
	calculateCmd.Flags().Float64("multi-threshold", 0.85, "similarity required when several candidates are retrieved")
	calculateCmd.Flags().Float64("single-threshold", 0.75, "similarity required for a single candidate")
	calculateCmd.Flags().Int("top", 15, "contributions listed in reports")
	calculateCmd.Flags().String("output-dir", "reports", "directory for report files")
	calculateCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	calculateCmd.Flags().Int("retries", 3, "maximum retries for rate-limited requests")
	calculateCmd.Flags().String("api-key", "", "SerpAPI key (overrides SERPAPI_API_KEY and the secrets file)")
	calculateCmd.Flags().Bool("pdf", true, "write the PDF report")
	calculateCmd.Flags().Bool("no-archive", false, "skip recording the run in the local history")
	calculateCmd.Flags().String("archive-path", "lindex.db", "run-history database path")
	calculateCmd.Flags().StringSlice("large-group-keywords", nil, "override the built-in large-collaboration keywords")

	for _, name := range []string{
		"max-publications", "sort", "search-cap", "multi-threshold",
		"single-threshold", "top", "output-dir", "timeout", "retries",
		"api-key", "pdf", "no-archive", "archive-path", "large-group-keywords",
	} {
		_ = viper.BindPFlag(name, calculateCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		var err error
		query, err = promptQuery(cmd.InOrStdin(), os.Stdout)
		if err != nil {
			return err
		}
	}
	if query == "" {
		return fmt.Errorf("no author name or profile identifier provided")
	}

	apiKey, err := resolveAPIKey(cmd)
	if err != nil {
		return err
	}

	client := scholar.New(types.ScholarConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: defaultUserAgent,
		},
		APIKey:     apiKey,
		MaxRetries: viper.GetInt("retries"),
	})

	calc := index.New(client,
		types.ResolutionConfig{
			SearchCap:       viper.GetInt("search-cap"),
			MultiThreshold:  viper.GetFloat64("multi-threshold"),
			SingleThreshold: viper.GetFloat64("single-threshold"),
		},
		types.IndexConfig{
			MaxPublications:    viper.GetInt("max-publications"),
			SortKey:            viper.GetString("sort"),
			LargeGroupKeywords: largeGroupKeywords(),
		})

	result, err := calc.Calculate(context.Background(), query, os.Stdout)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			fmt.Fprintln(os.Stderr, "No confident author match was found. Check the spelling, or pass the Scholar profile ID if known.")
		case errors.Is(err, types.ErrRateLimited):
			fmt.Fprintln(os.Stderr, "The source rate limited this run before it could complete. Wait a while (possibly hours) before retrying.")
		}
		return err
	}

	fmt.Println()
	report.WriteSummary(os.Stdout, result)

	if err := writeReports(query, result); err != nil {
		return err
	}

	if !viper.GetBool("no-archive") {
		archiveRun(query, result)
	}
	return nil
}

// promptQuery asks interactively when no query argument was given.
func promptQuery(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter author name or Google Scholar ID: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading query: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// resolveAPIKey picks the SerpAPI key: flag or config first, then the
// environment and the secrets directory.
func resolveAPIKey(cmd *cobra.Command) (string, error) {
	if key := viper.GetString("api-key"); key != "" {
		return key, nil
	}
	dir, _ := cmd.Flags().GetString("secrets-dir")
	if dir == "" {
		dir = secrets.DefaultDir
	}
	key, err := secrets.APIKey(dir, os.Stderr)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("no SerpAPI key configured: use --api-key, SERPAPI_API_KEY, or %s/serpapi-api-key", dir)
	}
	return key, nil
}

func largeGroupKeywords() []string {
	keywords := viper.GetStringSlice("large-group-keywords")
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

func writeReports(query string, result types.ComputationResult) error {
	outputDir := viper.GetString("output-dir")
	topN := viper.GetInt("top")
	now := time.Now()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	base := report.BaseName(result, viper.GetInt("max-publications"), now)

	yamlPath := filepath.Join(outputDir, base+".yaml")
	if err := report.WriteYAML(yamlPath, query, result, topN, now); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", yamlPath)

	if viper.GetBool("pdf") {
		pdfPath := filepath.Join(outputDir, base+".pdf")
		if err := report.WritePDF(pdfPath, result, topN, now); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write PDF report: %v\n", err)
		} else {
			fmt.Printf("Report written to %s\n", pdfPath)
		}
	}
	return nil
}

// archiveRun records the run in the local history. Archive problems never
// fail a computation that already succeeded.
func archiveRun(query string, result types.ComputationResult) {
	store, err := archive.NewStore(types.ArchiveConfig{Path: viper.GetString("archive-path")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run archive unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(context.Background(), query, result, viper.GetInt("top")); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not archive run: %v\n", err)
	}
}
