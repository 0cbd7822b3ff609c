// Package rest implements the table store over the hosted backend's
// PostgREST interface.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultBackoffBase = time.Second
	defaultMaxDelay    = 30 * time.Second
	restPrefix         = "/rest/v1/"
	backendName        = "rest"
)

// Backend talks to /rest/v1/{table}.
type Backend struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	backoffBase time.Duration
	maxDelay    time.Duration
}

// Option configures the Backend.
type Option func(*Backend)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		if c != nil {
			b.httpClient = c
		}
	}
}

// WithBackoffBase sets the first retry delay; later retries double it.
func WithBackoffBase(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.backoffBase = d
		}
	}
}

// WithMaxRetryDelay caps the wait between retries, including Retry-After.
func WithMaxRetryDelay(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// New creates a Backend for the service at baseURL authenticated with apiKey.
func New(baseURL, apiKey string, opts ...Option) *Backend {
	b := &Backend{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		backoffBase: defaultBackoffBase,
		maxDelay:    defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements repository.Backend.
func (b *Backend) Name() string { return backendName }

// Close implements repository.Backend.
func (b *Backend) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

// Select implements repository.Backend.
func (b *Backend) Select(ctx context.Context, q repository.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}
	data, err := b.call(ctx, "select", request{method: http.MethodGet, path: restPrefix + q.Table, query: encodeQuery(q, true)})
	if err != nil {
		return err
	}
	return repository.DecodeAll(data, dest)
}

// Insert implements repository.Backend.
func (b *Backend) Insert(ctx context.Context, table string, row any, dest any) error {
	if err := repository.From(table).Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}
	data, err := b.call(ctx, "insert", request{
		method: http.MethodPost,
		path:   restPrefix + table,
		query:  url.Values{"select": {"*"}},
		body:   body,
		prefer: "return=representation",
	})
	if err != nil {
		return err
	}
	return repository.DecodeFirst(data, dest)
}

// Update implements repository.Backend.
func (b *Backend) Update(ctx context.Context, q repository.Query, patch map[string]any, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	query := encodeQuery(q, false)
	query.Set("select", "*")
	data, err := b.call(ctx, "update", request{
		method: http.MethodPatch,
		path:   restPrefix + q.Table,
		query:  query,
		body:   body,
		prefer: "return=representation",
	})
	if err != nil {
		return err
	}
	return repository.DecodeFirst(data, dest)
}

// Delete implements repository.Backend.
func (b *Backend) Delete(ctx context.Context, q repository.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	_, err := b.call(ctx, "delete", request{method: http.MethodDelete, path: restPrefix + q.Table, query: encodeQuery(q, false)})
	return err
}

// call runs req, records its latency and maps failures onto repository errors.
func (b *Backend) call(ctx context.Context, op string, req request) ([]byte, error) {
	start := time.Now()
	data, err := b.do(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordBackendRequest(backendName, op, status, float64(time.Since(start).Nanoseconds())/1e6)
	if err == nil {
		return data, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return nil, errors.Join(repository.ErrNotFound, err)
		case http.StatusConflict:
			return nil, errors.Join(repository.ErrConflict, err)
		}
	}
	return nil, repository.BackendError(op, err)
}

// encodeQuery renders q in the PostgREST dialect: col=op.value, order=col.dir,
// limit=n and, for reads, select=cols.
func encodeQuery(q repository.Query, read bool) url.Values {
	v := url.Values{}
	if read {
		cols := "*"
		if len(q.Columns) > 0 {
			cols = strings.Join(q.Columns, ",")
		}
		v.Set("select", cols)
	}
	for _, f := range q.Filters {
		v.Add(f.Column, string(f.Op)+"."+repository.FormatValue(f.Value))
	}
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts[i] = o.Column + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if read && q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
