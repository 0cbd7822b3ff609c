// Package notify delivers raised alerts outside the process.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Webhook kinds.
const (
	KindHTTP  = "http"
	KindSlack = "slack"
)

var errStatus = errors.New("webhook returned error status")

// Webhook is one delivery target.
type Webhook struct {
	Type string `koanf:"type" json:"type"`
	URL  string `koanf:"url" json:"url"`
}

// Webhooks posts alerts to every configured target in the background.
type Webhooks struct {
	targets []Webhook
	client  *http.Client
	logger  logger.Logger
	wg      sync.WaitGroup
}

// Option configures Webhooks.
type Option func(*Webhooks)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhooks) {
		if c != nil {
			w.client = c
		}
	}
}

// NewWebhooks creates a sender for targets. Targets with an empty URL are skipped.
func NewWebhooks(targets []Webhook, opts ...Option) *Webhooks {
	w := &Webhooks{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Get().Named("notify"),
	}
	for _, t := range targets {
		if t.URL != "" {
			w.targets = append(w.targets, t)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Len returns the number of active targets.
func (w *Webhooks) Len() int { return len(w.targets) }

// Publish schedules delivery of a to every target and returns immediately.
func (w *Webhooks) Publish(_ context.Context, a model.Alert) { //nolint:gocritic // hugeParam: notifier signature
	if len(w.targets) == 0 {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.deliver(a)
	}()
}

// Wait blocks until in-flight deliveries finish.
func (w *Webhooks) Wait() { w.wg.Wait() }

func (w *Webhooks) deliver(a model.Alert) { //nolint:gocritic // hugeParam
	ctx := context.Background()
	for _, t := range w.targets {
		var err error
		switch t.Type {
		case KindSlack:
			err = w.post(ctx, t.URL, slackBody(a))
		case KindHTTP, "":
			err = w.post(ctx, t.URL, httpBody(a))
		default:
			w.logger.Warn(ctx, "unknown webhook type", logger.String("type", t.Type))
			metrics.RecordWebhookDelivery(t.Type, "skipped")
			continue
		}
		if err != nil {
			w.logger.Error(ctx, "webhook delivery failed",
				logger.String("type", t.Type),
				logger.String("alert_id", a.ID),
				logger.Error(err))
			metrics.RecordWebhookDelivery(t.Type, "error")
			continue
		}
		metrics.RecordWebhookDelivery(t.Type, "ok")
	}
}

func slackBody(a model.Alert) []byte { //nolint:gocritic // hugeParam
	text := fmt.Sprintf("*[%s]* %s", a.Severity, a.Title)
	if a.Description != nil && *a.Description != "" {
		text += "\n" + *a.Description
	}
	body, _ := json.Marshal(map[string]string{"text": text})
	return body
}

func httpBody(a model.Alert) []byte { //nolint:gocritic // hugeParam
	body, _ := json.Marshal(map[string]any{"alert": a})
	return body
}

func (w *Webhooks) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", errStatus, resp.StatusCode)
	}
	return nil
}
