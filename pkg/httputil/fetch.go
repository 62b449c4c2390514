package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/observability"
)

// DefaultMaxBytes caps downloaded bodies when Fetch is given no limit.
const DefaultMaxBytes = 20 << 20

// FetchAttempts and FetchDelay control the retry policy of [Fetch].
var (
	FetchAttempts = 3
	FetchDelay    = time.Second
)

// Fetch downloads url and returns its body. maxBytes <= 0 means
// [DefaultMaxBytes]. Transient failures are retried per [Retry].
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	hooks := observability.HTTP()
	var body []byte
	err := Retry(ctx, FetchAttempts, FetchDelay, func() error {
		start := time.Now()
		hooks.OnRequest(ctx, url)
		data, status, err := get(ctx, client, url, maxBytes)
		hooks.OnResponse(ctx, url, status, time.Since(start), err)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	return body, nil
}

func get(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case RetryableStatus(resp.StatusCode):
		return nil, resp.StatusCode, Retryable(fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, errors.New(errors.ErrCodeNotFound, "%s: status 404", url)
	case resp.StatusCode >= 400:
		return nil, resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, resp.StatusCode, Retryable(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, resp.StatusCode, errors.New(errors.ErrCodeInvalidInput, "%s: body exceeds %d bytes", url, maxBytes)
	}
	return data, resp.StatusCode, nil
}
