// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pdiddy/lindex/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{Path: filepath.Join(t.TempDir(), "history", "lindex.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	base := time.Date(2026, time.August, 21, 10, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	return store
}

func garciaResult() types.ComputationResult {
	index := 4.025
	return types.ComputationResult{
		Index: &index,
		Author: types.Author{
			Name:        "Maria Garcia",
			ID:          "AbCdEfGhIjKl",
			Affiliation: "Coastal University",
		},
		RawSum:    55.0,
		Fetched:   3,
		Processed: 3,
		Contributions: []types.Contribution{
			{Score: 50.0, Title: "Fresh Result", Year: 2025, Citations: 50, Authors: 1, Age: 1},
			{Score: 5.0, Title: "Deep Survey", Year: 2016, Citations: 100, Authors: 2, Age: 10},
			{Score: 0.0, Title: "Old Note", Year: 2000, Citations: 0, Authors: 3, Age: 26},
		},
		Skips: types.SkipLedger{},
	}
}

func TestRecordAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, "Maria Garcia", garciaResult(), 15)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	second, err := store.Record(ctx, "Maria Garcia", garciaResult(), 15)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first == second {
		t.Fatalf("runs share identifier %q", first)
	}

	runs, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List() returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not newest first: got %s, %s", runs[0].ID, runs[1].ID)
	}

	got := runs[0]
	if got.Query != "Maria Garcia" || got.AuthorID != "AbCdEfGhIjKl" || got.AuthorName != "Maria Garcia" {
		t.Errorf("run identity fields = %q/%q/%q", got.Query, got.AuthorID, got.AuthorName)
	}
	if got.Index == nil || *got.Index != 4.025 {
		t.Errorf("index = %v, want 4.025", got.Index)
	}
	if got.RawSum != 55.0 || got.Fetched != 3 || got.Processed != 3 {
		t.Errorf("counters = %v/%d/%d, want 55/3/3", got.RawSum, got.Fetched, got.Processed)
	}
	if got.RateLimited {
		t.Error("clean run stored as rate limited")
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not round-tripped")
	}
}

func TestListFilter(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, "Maria Garcia", garciaResult(), 15); err != nil {
		t.Fatal(err)
	}
	other := garciaResult()
	other.Author = types.Author{Name: "John Smith", ID: "MnOpQrStUvWx"}
	if _, err := store.Record(ctx, "smith, john", other, 15); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(ctx, "garcia", 0)
	if err != nil {
		t.Fatalf("List(garcia) error = %v", err)
	}
	if len(runs) != 1 || runs[0].AuthorName != "Maria Garcia" {
		t.Errorf("List(garcia) = %+v, want the Garcia run only", runs)
	}

	runs, err = store.List(ctx, "MnOpQrStUvWx", 0)
	if err != nil {
		t.Fatalf("List(id) error = %v", err)
	}
	if len(runs) != 1 || runs[0].AuthorName != "John Smith" {
		t.Errorf("List(id) = %+v, want the Smith run only", runs)
	}
}

func TestListLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Record(ctx, "Maria Garcia", garciaResult(), 15); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := store.List(ctx, "", 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("List() returned %d runs, want limit of 2", len(runs))
	}
}

func TestContributionsRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	result := garciaResult()
	id, err := store.Record(ctx, "Maria Garcia", result, 2)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := store.Contributions(ctx, id)
	if err != nil {
		t.Fatalf("Contributions() error = %v", err)
	}
	want := result.Contributions[:2]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contributions mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordWithoutIndex(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	result := garciaResult()
	result.Index = nil
	result.Contributions = nil
	result.Skips = types.SkipLedger{types.SkipHalted: 3}
	result.RateLimited = true

	id, err := store.Record(ctx, "Maria Garcia", result, 15)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	runs, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("List() = %+v, want the recorded run", runs)
	}
	if runs[0].Index != nil {
		t.Errorf("index = %v, want nil", *runs[0].Index)
	}
	if !runs[0].RateLimited {
		t.Error("rate-limited flag lost")
	}
	if got := runs[0].Skips[types.SkipHalted]; got != 3 {
		t.Errorf("skip ledger halted = %d, want 3", got)
	}
}
