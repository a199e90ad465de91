// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides the pure string heuristics behind author
// resolution and author-count estimation.
// Implements: prd001-author-resolution R3.1-R3.2;
//
//	prd002-index-computation R2.2-R2.4.
package metrics

import (
	"strings"
	"unicode"
)

// DefaultLargeGroupKeywords lists whole-word markers of consortium-style
// group authorship, where the record names the group instead of its members.
var DefaultLargeGroupKeywords = []string{
	"consortium", "consortia", "group", "collaboration",
	"society", "association", "network", "committee",
	"investigators", "international",
}

const (
	// largeGroupBonus approximates the membership behind a group name.
	largeGroupBonus = 50

	// etAlBonus approximates the authors hidden behind an "et al" marker.
	etAlBonus = 3
)

// Similarity returns the longest-matching-block ratio between the two
// strings, case-folded: 2*M/T, where M is the total length of the matching
// blocks found by repeatedly taking the longest common block (earliest in a,
// then earliest in b) and recursing on both sides, and T is the combined
// rune length. The result is in [0, 1]; two empty strings score 0.
// Per prd001-author-resolution R3.1.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	matched := matchingLen(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(total)
}

// matchingLen sums the lengths of all matching blocks between a[alo:ahi]
// and b[blo:bhi].
func matchingLen(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingLen(a, b, alo, i, blo, j) +
		matchingLen(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block with a[i:i+size] == b[j:j+size]
// inside the given windows. Equal-length blocks resolve to the earliest i,
// then the earliest j.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}
	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int, len(b2j[a[i]]))
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

// EstimateAuthorCount derives an author count from a raw author field. The
// second return is false only for an empty field, where no estimate is
// possible. Separator words ("and", ";") are normalized to commas before
// counting; an "et al" marker adds 3; a whole-word large-group keyword adds
// 50, applied once. A nil keywords slice keeps DefaultLargeGroupKeywords;
// an empty one disables the large-group bonus.
// Per prd002-index-computation R2.2-R2.4.
func EstimateAuthorCount(field string, keywords []string) (int, bool) {
	if field == "" {
		return 0, false
	}
	if keywords == nil {
		keywords = DefaultLargeGroupKeywords
	}
	lower := strings.ToLower(field)

	normalized := strings.ReplaceAll(lower, " and ", ",")
	normalized = strings.ReplaceAll(normalized, ";", ",")
	count := 0
	for _, part := range strings.Split(normalized, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	if count < 1 {
		count = 1
	}

	// Whole-word scan over a punctuation-normalized padded form, so that
	// "et al." and "Consortium," still match.
	padded := " " + strings.Join(tokens(lower), " ") + " "
	if strings.Contains(padded, " et al ") {
		count += etAlBonus
	}
	for _, kw := range keywords {
		if strings.Contains(padded, " "+kw+" ") {
			count += largeGroupBonus
			break
		}
	}
	return count, true
}

// tokens splits s on every non-alphanumeric rune.
func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
