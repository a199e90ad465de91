// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared across the pipeline. Collaborators wrap these with
// call-site context; callers test with errors.Is. Per prd003-scholar-client R3.
var (
	// ErrNotFound reports that the source has no record for the query.
	ErrNotFound = errors.New("author not found")

	// ErrRateLimited reports that the source refused a call because of
	// rate limiting, after the transport exhausted its retries.
	ErrRateLimited = errors.New("rate limited by source")
)
