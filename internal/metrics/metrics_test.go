// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"math"
	"testing"
)

// --- Similarity ---

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 0},
		{"one empty", "abc", "", 0},
		{"identical", "maria garcia", "maria garcia", 1},
		{"case folded", "Maria GARCIA", "maria garcia", 1},
		{"shared prefix", "abcdefgh12", "abcdefgh34", 0.8},
		{"interleaved blocks", "apple", "pale", 2.0 * 3 / 9},
		{"near name", "jon smith", "john smith", 2.0 * 9 / 19},
		{"disjoint", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"albert einstein", "a einstein"},
		{"x", "xxxxxxxxxxxxxxxx"},
		{"kowalski", "kovalsky"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

// --- EstimateAuthorCount ---

func TestEstimateAuthorCount(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  int
	}{
		{"single author", "J Smith", 1},
		{"comma separated", "Smith J, Doe A, Lee K", 3},
		{"and separator", "Smith J, Doe A and Lee K", 3},
		{"semicolons", "A Kowalski; B Nowak; C Wozniak", 3},
		{"blank part dropped", "Smith, , Doe", 2},
		{"whitespace only", "   ", 1},
		{"et al marker", "J Smith et al.", 4},
		{"et al mid list", "J Smith and R Jones et al.", 5},
		{"et alpha is not et al", "Smith J et alpha", 1},
		{"name containing and", "Paul Anderson", 1},
		{"large group", "The ATLAS Collaboration", 51},
		{"group after list", "A, B, C, the XYZ Consortium", 54},
		{"keyword with comma", "Johnson B, the Framingham Heart Study Group,", 52},
		{"bonus applied once", "International Consortium", 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EstimateAuthorCount(tt.field, nil)
			if !ok {
				t.Fatalf("EstimateAuthorCount(%q) reported no estimate", tt.field)
			}
			if got != tt.want {
				t.Errorf("EstimateAuthorCount(%q) = %d, want %d", tt.field, got, tt.want)
			}
		})
	}
}

func TestEstimateAuthorCountEmpty(t *testing.T) {
	if _, ok := EstimateAuthorCount("", nil); ok {
		t.Error("EstimateAuthorCount(\"\") reported an estimate, want none")
	}
}

func TestEstimateAuthorCountKeywordOverride(t *testing.T) {
	got, ok := EstimateAuthorCount("Team Rocket", []string{"team"})
	if !ok || got != 51 {
		t.Errorf("custom keyword: got %d (ok=%v), want 51", got, ok)
	}
	got, ok = EstimateAuthorCount("The ATLAS Collaboration", []string{})
	if !ok || got != 1 {
		t.Errorf("disabled keywords: got %d (ok=%v), want 1", got, ok)
	}
}
