package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	maxRetries  = 3
	maxErrorLen = 512
)

// APIError represents a non-2xx response of the table service.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
	prefer string
}

// do sends req and returns the response body. Retries on 429 (honouring
// Retry-After) with exponential backoff, at most maxRetries times. A 5xx is
// retried only for methods other than POST, since the insert may have landed.
func (b *Backend) do(ctx context.Context, req request) ([]byte, error) {
	fullURL := b.baseURL + req.path
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}

	var lastErr *APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(b.backoffDelay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		var body io.Reader
		if req.body != nil {
			body = bytes.NewReader(req.body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("apikey", b.apiKey)
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
		httpReq.Header.Set("Accept", "application/json")
		if req.body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.prefer != "" {
			httpReq.Header.Set("Prefer", req.prefer)
		}

		resp, err := b.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		bodyStr := string(data)
		if len(bodyStr) > maxErrorLen {
			bodyStr = bodyStr[:maxErrorLen]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		case resp.StatusCode >= http.StatusInternalServerError && req.method != http.MethodPost:
			lastErr = apiErr
			continue
		}
		return nil, apiErr
	}
	return nil, lastErr
}

// backoffDelay returns the wait before a retry attempt: Retry-After seconds
// for a 429 that carries one, otherwise base, 2*base, 4*base. The result never
// exceeds the configured maximum.
func (b *Backend) backoffDelay(attempt int, lastErr *APIError) time.Duration {
	d := time.Duration(1<<(attempt-1)) * b.backoffBase
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			d = time.Duration(secs) * time.Second
		}
	}
	return min(d, b.maxDelay)
}
