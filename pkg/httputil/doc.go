// Package httputil downloads topology datasets over HTTP.
//
// # Overview
//
// Relationship and customer-cone snapshots are published as compressed
// files on public web servers. [Fetch] downloads one into memory and
// retries transient failures:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other 4xx responses fail immediately.
//
//	data, err := httputil.Fetch(ctx, nil, "https://example.org/20240101.as-rel.txt.bz2")
//
// # Retry
//
// [Retry] runs a function with exponential backoff and only retries errors
// wrapped in [RetryableError]. [Fetch] uses it with [DefaultAttempts] and
// [DefaultDelay].
package httputil
