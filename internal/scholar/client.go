// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar implements the author profile source as a typed client
// for a SerpAPI-compatible Google Scholar JSON API.
// Implements: prd003-scholar-client (R1-R4);
//
//	docs/ARCHITECTURE § External Sources.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/lindex/pkg/types"
)

// apiBase is the profile API search endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://serpapi.com/search.json"

// retryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries  = 3
	defaultTimeout     = 30 * time.Second
	articlesPageSize   = 100
	defaultListLimit   = 100
	defaultSearchLimit = 10
)

// Client calls the profile API. The engines never retry; all backoff
// lives here (R2.1). The zero value is usable, but New applies the
// configured timeout.
type Client struct {
	Client *http.Client
	Config types.ScholarConfig
}

// New returns a Client whose HTTP client uses the configured timeout.
func New(cfg types.ScholarConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		Client: &http.Client{Timeout: timeout},
		Config: cfg,
	}
}

// LookupAuthor fetches the profile for a known identifier and returns it
// as a candidate (R1.1). A missing profile maps to types.ErrNotFound.
func (c *Client) LookupAuthor(ctx context.Context, id string) (types.CandidateAuthor, error) {
	params := url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {id},
	}
	var ar authorResponse
	if err := c.getJSON(ctx, params, &ar); err != nil {
		return types.CandidateAuthor{}, fmt.Errorf("author lookup: %w", err)
	}
	if ar.Error != "" || ar.Author.Name == "" {
		return types.CandidateAuthor{}, fmt.Errorf("author %q: %w", id, types.ErrNotFound)
	}
	return types.CandidateAuthor{
		Name:        ar.Author.Name,
		ID:          id,
		Affiliation: ar.Author.Affiliations,
	}, nil
}

// SearchAuthors pages through profile search results for a name until
// limit candidates are collected or the results run out (R1.2). On a
// mid-sequence failure the candidates gathered so far are returned
// together with the error, so callers can still evaluate the partial set.
func (c *Client) SearchAuthors(ctx context.Context, name string, limit int) ([]types.CandidateAuthor, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var out []types.CandidateAuthor
	token := ""
	for len(out) < limit {
		params := url.Values{
			"engine":   {"google_scholar_profiles"},
			"mauthors": {name},
		}
		if token != "" {
			params.Set("after_author", token)
		}
		var pr profilesResponse
		if err := c.getJSON(ctx, params, &pr); err != nil {
			return out, fmt.Errorf("author search: %w", err)
		}
		if pr.Error != "" || len(pr.Profiles) == 0 {
			break
		}
		for _, p := range pr.Profiles {
			out = append(out, types.CandidateAuthor{
				Name:        p.Name,
				ID:          p.AuthorID,
				Affiliation: p.Affiliations,
			})
			if len(out) == limit {
				break
			}
		}
		token = pr.Pagination.NextPageToken
		if token == "" {
			break
		}
	}
	return out, nil
}

// FillProfile enriches a resolved author in place with the profile's
// canonical name, affiliation, interests, and total citation count (R1.3).
func (c *Client) FillProfile(ctx context.Context, a *types.Author) error {
	params := url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {a.ID},
	}
	var ar authorResponse
	if err := c.getJSON(ctx, params, &ar); err != nil {
		return fmt.Errorf("profile fill: %w", err)
	}
	if ar.Error != "" || ar.Author.Name == "" {
		return fmt.Errorf("profile %q: %w", a.ID, types.ErrNotFound)
	}
	a.Name = ar.Author.Name
	if ar.Author.Affiliations != "" {
		a.Affiliation = ar.Author.Affiliations
	}
	if len(ar.Author.Interests) > 0 {
		interests := make([]string, 0, len(ar.Author.Interests))
		for _, in := range ar.Author.Interests {
			if in.Title != "" {
				interests = append(interests, in.Title)
			}
		}
		a.Interests = interests
	}
	for _, row := range ar.CitedBy.Table {
		if row.Citations != nil {
			all := row.Citations.All
			a.TotalCitations = &all
			break
		}
	}
	return nil
}

// Publications fetches up to limit publication stubs for an author (R1.4).
// The source's default ordering is most-cited-first ("citedby"); any other
// sort key is passed through. A paging failure discards prior pages: list
// retrieval is all-or-nothing for callers.
func (c *Client) Publications(ctx context.Context, authorID, sortKey string, limit int) ([]types.RawPublication, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []types.RawPublication
	start := 0
	for len(out) < limit {
		num := limit - len(out)
		if num > articlesPageSize {
			num = articlesPageSize
		}
		params := url.Values{
			"engine":    {"google_scholar_author"},
			"author_id": {authorID},
			"view_op":   {"list_works"},
			"num":       {strconv.Itoa(num)},
			"start":     {strconv.Itoa(start)},
		}
		if sortKey != "" && sortKey != "citedby" {
			params.Set("sort", sortKey)
		}
		var ar authorResponse
		if err := c.getJSON(ctx, params, &ar); err != nil {
			return nil, fmt.Errorf("publication list: %w", err)
		}
		if ar.Error != "" || len(ar.Articles) == 0 {
			break
		}
		for _, art := range ar.Articles {
			out = append(out, types.RawPublication{
				Title:      art.Title,
				Authors:    art.Authors,
				Year:       art.Year,
				CitedBy:    art.CitedBy.Value,
				CitationID: art.CitationID,
			})
			if len(out) == limit {
				break
			}
		}
		if len(ar.Articles) < num {
			break
		}
		start += len(ar.Articles)
	}
	return out, nil
}

// PublicationDetail fetches the full citation view for one stub and merges
// it over the stub's fields (R1.5). Stubs without a detail handle are
// returned unchanged. Detail fields that come back empty keep the stub's
// values, so a sparse detail record never erases known data.
func (c *Client) PublicationDetail(ctx context.Context, stub types.RawPublication) (types.RawPublication, error) {
	if stub.CitationID == "" {
		return stub, nil
	}
	params := url.Values{
		"engine":      {"google_scholar_author"},
		"view_op":     {"view_citation"},
		"citation_id": {stub.CitationID},
	}
	var cr citationResponse
	if err := c.getJSON(ctx, params, &cr); err != nil {
		return stub, fmt.Errorf("publication detail: %w", err)
	}
	merged := stub
	if cr.Citation.Title != "" {
		merged.Title = cr.Citation.Title
	}
	if cr.Citation.Authors != "" {
		merged.Authors = cr.Citation.Authors
	}
	if y := yearOf(cr.Citation.PublicationDate); y != "" {
		merged.Year = y
	}
	return merged, nil
}

// getJSON performs one API call and decodes the body into v. HTTP 429 is
// retried with exponential backoff (base retryBaseDelay, doubling per
// attempt); exhausted retries surface types.ErrRateLimited. HTTP 404 maps
// to types.ErrNotFound (R2, R3).
func (c *Client) getJSON(ctx context.Context, params url.Values, v any) error {
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	httpClient := c.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	maxRetries := c.Config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		resp, err = httpClient.Do(req.Clone(ctx))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		// Drain and close the body before retrying or giving up.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if attempt >= maxRetries {
			return fmt.Errorf("%d retries exhausted: %w", maxRetries, types.ErrRateLimited)
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("profile API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing profile API response: %w", err)
	}
	return nil
}

func (c *Client) userAgent() string {
	if c.Config.UserAgent != "" {
		return c.Config.UserAgent
	}
	return "lindex/0.1"
}

// yearOf extracts the year component from a source date like "2018/05/01".
func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if i := strings.IndexByte(date, '/'); i >= 0 {
		date = date[:i]
	}
	return strings.TrimSpace(date)
}

// Profile API JSON structures (SerpAPI Google Scholar engines).

type profilesResponse struct {
	Error      string        `json:"error"`
	Profiles   []profileRow  `json:"profiles"`
	Pagination profilePaging `json:"pagination"`
}

type profileRow struct {
	Name         string `json:"name"`
	AuthorID     string `json:"author_id"`
	Affiliations string `json:"affiliations"`
}

type profilePaging struct {
	NextPageToken string `json:"next_page_token"`
}

type authorResponse struct {
	Error    string       `json:"error"`
	Author   authorBlock  `json:"author"`
	CitedBy  citedByBlock `json:"cited_by"`
	Articles []articleRow `json:"articles"`
}

type authorBlock struct {
	Name         string        `json:"name"`
	Affiliations string        `json:"affiliations"`
	Interests    []interestRow `json:"interests"`
}

type interestRow struct {
	Title string `json:"title"`
}

type citedByBlock struct {
	Table []citedByRow `json:"table"`
}

type citedByRow struct {
	Citations *citedByCounts `json:"citations"`
}

type citedByCounts struct {
	All int `json:"all"`
}

type articleRow struct {
	Title      string       `json:"title"`
	CitationID string       `json:"citation_id"`
	Authors    string       `json:"authors"`
	Year       string       `json:"year"`
	CitedBy    citedByValue `json:"cited_by"`
}

type citedByValue struct {
	Value int `json:"value"`
}

type citationResponse struct {
	Citation citationBlock `json:"citation"`
}

type citationBlock struct {
	Title           string `json:"title"`
	Authors         string `json:"authors"`
	PublicationDate string `json:"publication_date"`
}
