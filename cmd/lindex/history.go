// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lindex/internal/archive"
	"github.com/pdiddy/lindex/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List archived L-index runs",
	Long: `History lists runs recorded in the local archive, newest first. An
optional query filters by author name, original query text, or exact
profile identifier.

Use --show with a run ID to print that run's archived contributions.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historyCmd.Flags().String("show", "", "print the contribution table for a run ID")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.Flags().String("archive-path", "lindex.db", "run-history database path")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	archivePath, _ := cmd.Flags().GetString("archive-path")
	store, err := archive.NewStore(types.ArchiveConfig{Path: archivePath})
	if err != nil {
		return err
	}
	defer store.Close()

	if showID, _ := cmd.Flags().GetString("show"); showID != "" {
		return showRun(store, showID)
	}

	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), query, limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(runs, jsonOutput)
}

func formatHistoryOutput(runs []archive.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-24s  %-7s  %-9s  %-7s  %s\n",
		"Date", "Author", "Index", "Pubs", "Partial", "Run ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range runs {
		name := r.AuthorName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		indexStr := "N/A"
		if r.Index != nil {
			indexStr = fmt.Sprintf("%.2f", *r.Index)
		}
		partial := ""
		if r.RateLimited {
			partial = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-24s  %-7s  %-9s  %-7s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), name, indexStr,
			fmt.Sprintf("%d/%d", r.Processed, r.Fetched), partial, r.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func showRun(store *archive.Store, id string) error {
	contributions, err := store.Contributions(context.Background(), id)
	if err != nil {
		return err
	}
	if len(contributions) == 0 {
		fmt.Println("No contributions archived for this run.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-7s  %-7s  %-5s  %-5s  %s\n",
		"Rank", "Score", "Cites", "Authors", "Age", "Year", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, c := range contributions {
		fmt.Fprintf(os.Stdout, "%-4d  %-8.1f  %-7d  %-7d  %-5d  %-5d  %s\n",
			i+1, c.Score, c.Citations, c.Authors, c.Age, c.Year, c.Title)
	}
	return nil
}
