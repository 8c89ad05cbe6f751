package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/asgraph/pkg/buildinfo"
	"github.com/matzehuels/asgraph/pkg/errors"
)

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads url and returns the response body. A nil client means
// http.DefaultClient. Transient failures are retried.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	return fetch(ctx, client, url, DefaultAttempts)
}

func fetch(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err := Retry(ctx, attempts, DefaultDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "request %s", url)
		}
		req.Header.Set("User-Agent", "asgraph/"+buildinfo.Version)

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RetryableError{Err: errors.Wrap(errors.ErrCodeIO, err, "fetch %s", url)}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeFileNotFound, "fetch %s: %s", url, resp.Status)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &RetryableError{Err: errors.New(errors.ErrCodeIO, "fetch %s: %s", url, resp.Status)}
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeIO, "fetch %s: %s", url, resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &RetryableError{Err: errors.Wrap(errors.ErrCodeIO, err, "read %s", url)}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	return body, nil
}
