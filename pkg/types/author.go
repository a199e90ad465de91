// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lindex pipeline.
// Implements: prd001-author-resolution (CandidateAuthor, Author);
//
//	prd002-index-computation (RawPublication, Contribution, ComputationResult);
//	prd003-scholar-client (sentinel errors);
//	prd006-cli (config structs).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// ProfileBaseURL is the fixed prefix for public author profile links. The
// resolved identifier is appended verbatim. Per prd001-author-resolution R4.5.
const ProfileBaseURL = "https://scholar.google.com/citations?user="

// CandidateAuthor is one author record returned by a profile search or a
// direct identifier lookup, before resolution has accepted it.
type CandidateAuthor struct {
	// Name is the display name as reported by the source.
	Name string `json:"name" yaml:"name"`

	// ID is the source profile identifier. Search rows occasionally omit
	// it; resolution discards such candidates.
	ID string `json:"id" yaml:"id"`

	// Affiliation is the free-text affiliation line, if any.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Author is a resolved author, enriched with profile details where the
// source provided them. Per prd001-author-resolution R4.
type Author struct {
	// Name is the display name of the resolved profile.
	Name string `json:"name" yaml:"name"`

	// ID is the resolved profile identifier. Non-empty on any successful
	// resolution.
	ID string `json:"id" yaml:"id"`

	// Affiliation is the profile affiliation line, when known.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Interests lists the profile's research interest labels.
	Interests []string `json:"interests,omitempty" yaml:"interests,omitempty"`

	// TotalCitations is the profile-wide citation count. Nil when the
	// source did not report one.
	TotalCitations *int `json:"total_citations,omitempty" yaml:"total_citations,omitempty"`
}

// ProfileURL returns the public profile link for the resolved identifier,
// or "" when the author has none.
func (a Author) ProfileURL() string {
	if a.ID == "" {
		return ""
	}
	return ProfileBaseURL + a.ID
}
