package seeddata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

// submission outcomes
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// HTTPClient wraps http.Client with a base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

// Get performs a GET request against path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON decodes a 200 response from path into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// monitoringStats fetches the trend summary of one user.
func (c *HTTPClient) monitoringStats(ctx context.Context, userID, dataType string) (types.MonitoringStats, error) {
	var st types.MonitoringStats
	path := "/monitoring/" + url.PathEscape(userID) + "/stats?type=" + url.QueryEscape(dataType)
	err := c.getJSON(ctx, path, &st)
	return st, err
}

// submitReadings posts readings with cfg.Workers concurrent submitters.
// Readings of one user are submitted in order by the same worker.
func submitReadings(ctx context.Context, cfg *Config, client *HTTPClient, readings []Reading, stats *Stats) {
	log := logger.Get().Named("seed")
	log.Info(ctx, "submitting readings", logger.Int("readings", len(readings)), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, failed atomic.Int64

	byUser := make(map[string][]Reading)
	for _, r := range readings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	batches := make(chan []Reading, cfg.Workers)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				for _, r := range batch {
					if ctx.Err() != nil {
						return
					}
					switch submitOne(ctx, client, r) {
					case outcomeAccepted:
						accepted.Add(1)
					case outcomeDuplicate:
						duplicate.Add(1)
					default:
						failed.Add(1)
						if cfg.Verbose {
							log.Warn(ctx, "submission failed", logger.String("submission_id", r.SubmissionID))
						}
					}
				}
			}
		}()
	}

feed:
	for _, user := range usersOf(readings) {
		select {
		case <-ctx.Done():
			break feed
		case batches <- byUser[user]:
		}
	}
	close(batches)
	wg.Wait()

	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Failed = int(failed.Load())
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Failed
	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed))
}

func submitOne(ctx context.Context, client *HTTPClient, r Reading) string {
	resp, err := client.Post(ctx, "/monitoring", r)
	if err != nil {
		return outcomeFailed
	}
	defer resp.Body.Close()

	var ack AckResponse
	_ = json.NewDecoder(resp.Body).Decode(&ack)
	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		return outcomeDuplicate
	default:
		return outcomeFailed
	}
}
