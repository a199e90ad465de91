// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists computation runs in a local SQLite history.
// Implements: prd005-run-archive (R1-R4);
//
//	docs/ARCHITECTURE § Run Archive.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lindex/pkg/types"
)

const (
	dbFile           = "lindex.db"
	defaultListLimit = 20

	// timeLayout keeps a fixed-width fraction so stored timestamps sort
	// lexicographically in creation order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB

	// now supplies record timestamps; tests fix it.
	now func() time.Time
}

// Run is one archived computation.
type Run struct {
	ID          string           `json:"id"`
	Query       string           `json:"query"`
	AuthorID    string           `json:"author_id"`
	AuthorName  string           `json:"author_name"`
	Index       *float64         `json:"index"`
	RawSum      float64          `json:"raw_sum"`
	Processed   int              `json:"processed"`
	Fetched     int              `json:"fetched"`
	RateLimited bool             `json:"rate_limited"`
	Skips       types.SkipLedger `json:"skips,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewStore opens or creates the run-history database at cfg.Path,
// creating the schema when missing (R1).
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = dbFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			author_id TEXT,
			author_name TEXT,
			index_value REAL,
			raw_sum REAL NOT NULL,
			processed INTEGER NOT NULL,
			fetched INTEGER NOT NULL,
			rate_limited INTEGER NOT NULL,
			skips TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_author_id ON runs(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE TABLE IF NOT EXISTS contributions (
			run_id TEXT NOT NULL REFERENCES runs(id),
			rank INTEGER NOT NULL,
			score REAL NOT NULL,
			title TEXT,
			year INTEGER,
			citations INTEGER,
			authors INTEGER,
			age INTEGER,
			PRIMARY KEY (run_id, rank)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record archives one computation and its top topN contributions (R2).
// It returns the new run's identifier.
func (s *Store) Record(ctx context.Context, query string, result types.ComputationResult, topN int) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	skipsJSON, _ := json.Marshal(result.Skips)
	createdAt := s.now().UTC().Format(timeLayout)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, query, author_id, author_name, index_value, raw_sum,
			processed, fetched, rate_limited, skips, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, query, result.Author.ID, result.Author.Name, result.Index, result.RawSum,
		result.Processed, result.Fetched, result.RateLimited, string(skipsJSON), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contributions (run_id, rank, score, title, year, citations, authors, age)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range result.Top(topN) {
		if _, err := stmt.ExecContext(ctx, id, i+1, c.Score, c.Title, c.Year, c.Citations, c.Authors, c.Age); err != nil {
			return "", fmt.Errorf("inserting contribution %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns archived runs newest first (R3). A non-empty query
// filters by substring match on the original query or author name, or
// exact author identifier. Zero limit means the default page size.
func (s *Store) List(ctx context.Context, query string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	const columns = `id, query, author_id, author_name, index_value, raw_sum,
		processed, fetched, rate_limited, skips, created_at`

	var (
		rows *sql.Rows
		err  error
	)
	if query != "" {
		pattern := "%" + query + "%"
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+columns+` FROM runs
			 WHERE query LIKE ? OR author_name LIKE ? OR author_id = ?
			 ORDER BY created_at DESC LIMIT ?`,
			pattern, pattern, query, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+columns+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			indexValue sql.NullFloat64
			skipsJSON  sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&run.ID, &run.Query, &run.AuthorID, &run.AuthorName,
			&indexValue, &run.RawSum, &run.Processed, &run.Fetched,
			&run.RateLimited, &skipsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if indexValue.Valid {
			v := indexValue.Float64
			run.Index = &v
		}
		if skipsJSON.Valid && skipsJSON.String != "" {
			if err := json.Unmarshal([]byte(skipsJSON.String), &run.Skips); err != nil {
				return nil, fmt.Errorf("decoding skip ledger for run %s: %w", run.ID, err)
			}
		}
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			run.CreatedAt = t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}
	return runs, nil
}

// Contributions returns the archived contribution rows for one run in
// rank order (R4).
func (s *Store) Contributions(ctx context.Context, runID string) ([]types.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, title, year, citations, authors, age
		 FROM contributions WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying contributions: %w", err)
	}
	defer rows.Close()

	var contributions []types.Contribution
	for rows.Next() {
		var c types.Contribution
		if err := rows.Scan(&c.Score, &c.Title, &c.Year, &c.Citations, &c.Authors, &c.Age); err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading contributions: %w", err)
	}
	return contributions, nil
}
