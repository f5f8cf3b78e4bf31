package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// httpClient is shared across all HTTPClient instances for connection
// reuse, mirroring the teacher's package-level cluster.httpClient.
var httpClient = &http.Client{Timeout: 5 * time.Second}

// HTTPClient is a Client backed by a REST gateway in front of the real
// metadata-registry transport (etcd, ZooKeeper, ...), which spec.md
// treats as out of scope. PUT stores a key's bytes at baseURL/key; GET
// retrieves them. Both retry with exponential backoff in place of the
// teacher's fixed time.Sleep(400ms) loop (cmd/node/main.go's register()),
// since registry RPCs, unlike column-store operations, cross a network
// boundary and are expected to fail transiently.
type HTTPClient struct {
	baseURL string
	// MaxElapsed bounds total retry time; zero removes the bound, so
	// retries continue until ctx is done. NewHTTPClient sets it to 10s.
	MaxElapsed time.Duration
}

// NewHTTPClient returns an HTTPClient against baseURL (no trailing slash).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, MaxElapsed: 10 * time.Second}
}

func (c *HTTPClient) keyURL(key string) string {
	return c.baseURL + "/" + url.PathEscape(key)
}

func (c *HTTPClient) backoffPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxElapsed
	return backoff.WithContext(b, ctx)
}

func (c *HTTPClient) Put(ctx context.Context, key string, value []byte) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.keyURL(key), bytes.NewReader(value))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := httpClient.Do(req)
		if err != nil {
			return err // network errors are retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("registry PUT %s: %d", key, resp.StatusCode)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("registry PUT %s: %d", key, resp.StatusCode))
		}
		return nil
	}
	return backoff.Retry(op, c.backoffPolicy(ctx))
}

func (c *HTTPClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.keyURL(key), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			found = false
			return nil
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("registry GET %s: %d", key, resp.StatusCode)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("registry GET %s: %d", key, resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		value, found = body, true
		return nil
	}
	if err := backoff.Retry(op, c.backoffPolicy(ctx)); err != nil {
		return nil, false, err
	}
	return value, found, nil
}
