// Package httputil provides HTTP helpers for fetching remote creative assets.
//
// # Overview
//
//   - [Fetch]: download a URL body with a size cap and automatic retries
//   - [Retry]: generic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs a function while it fails with a [RetryableError]. Fetch
// marks these failures retryable:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other failures (404, bodies over the size cap) are returned immediately.
//
//	data, err := httputil.Fetch(ctx, http.DefaultClient, "https://cdn.example.com/p.png", 0)
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
//   - Max body size: 20 MiB
package httputil
