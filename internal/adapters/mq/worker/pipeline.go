package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/rules"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/scoring"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Scorer converts raw metrics into scores.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) (scoring.Result, error)
}

// Readings stores and reloads monitoring rows.
type Readings interface {
	Create(ctx context.Context, m model.MonitoringData) (model.MonitoringData, error)
	ListByType(ctx context.Context, userID string, dt model.MonitoringDataType, limit int) ([]model.MonitoringData, error)
}

// AlertStore persists raised alerts.
type AlertStore interface {
	Create(ctx context.Context, a model.Alert) (model.Alert, error)
}

// Evaluator decides which alerts a trend evaluation raises. Release hands
// back the cooldown of a firing whose alert was not stored.
type Evaluator interface {
	Evaluate(ctx context.Context, ev rules.Evaluation) []rules.Firing
	Release(f rules.Firing)
}

// Notifier delivers stored alerts to live clients and webhooks.
type Notifier interface {
	Publish(ctx context.Context, a model.Alert)
}

// Outcome is what one submission produced.
type Outcome struct {
	Row    model.MonitoringData
	Trend  trend.Label
	Alerts []model.Alert
}

// Pipeline ingests one submission: score, store, reload, classify, evaluate, alert.
type Pipeline struct {
	scorer   Scorer
	readings Readings
	alerts   AlertStore
	rules    Evaluator
	notifier Notifier
	logger   logger.Logger
}

// NewPipeline wires the ingestion steps. rules and notifier may be nil.
func NewPipeline(scorer Scorer, readings Readings, alerts AlertStore, rules Evaluator, notifier Notifier) *Pipeline {
	return &Pipeline{
		scorer:   scorer,
		readings: readings,
		alerts:   alerts,
		rules:    rules,
		notifier: notifier,
		logger:   logger.Get().Named("pipeline"),
	}
}

// Process runs every step for sub. A failed alert write is logged and skipped
// and its rule may fire again on the next submission; earlier failures abort
// the submission.
func (p *Pipeline) Process(ctx context.Context, sub model.Submission) (Outcome, error) { //nolint:gocritic // hugeParam: passed by value off the queue
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1e3)
	}()

	score, err := p.score(ctx, sub)
	if err != nil {
		return Outcome{}, p.fail(ctx, "score", sub, err)
	}

	row, err := p.readings.Create(ctx, sub.Row(score))
	if err != nil {
		return Outcome{}, p.fail(ctx, "insert", sub, err)
	}

	recent, err := p.readings.ListByType(ctx, sub.UserID, sub.DataType, 2*trend.WindowSize)
	if err != nil {
		return Outcome{Row: row}, p.fail(ctx, "reload", sub, err)
	}

	obs := model.Observations(recent)
	label, windows := trend.ClassifyWindows(obs)
	metrics.RecordTrendClassification(string(label))
	out := Outcome{Row: row, Trend: label}

	if p.rules == nil {
		return out, nil
	}
	raised := p.rules.Evaluate(ctx, rules.Evaluation{
		UserID:     sub.UserID,
		DataType:   sub.DataType,
		Trend:      label,
		Windows:    windows,
		Average:    trend.AverageScore(obs),
		DataPoints: len(obs),
	})
	for _, f := range raised {
		stored, err := p.alerts.Create(ctx, f.Alert)
		if err != nil {
			p.rules.Release(f)
			_ = p.fail(ctx, "alert", sub, err)
			continue
		}
		metrics.RecordAlertRaised(string(stored.AlertType), string(stored.Severity))
		p.logger.Info(ctx, "alert raised",
			logger.String("user_id", stored.UserID),
			logger.String("alert_id", stored.ID),
			logger.String("severity", string(stored.Severity)))
		if p.notifier != nil {
			p.notifier.Publish(ctx, stored)
		}
		out.Alerts = append(out.Alerts, stored)
	}
	return out, nil
}

func (p *Pipeline) score(ctx context.Context, sub model.Submission) (int, error) { //nolint:gocritic // hugeParam
	if sub.Score != nil {
		return *sub.Score, nil
	}
	res, err := p.scorer.Score(ctx, scoring.Input{UserID: sub.UserID, DataType: sub.DataType, RawMetric: sub.RawMetric})
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

func (p *Pipeline) fail(ctx context.Context, step string, sub model.Submission, err error) error { //nolint:gocritic // hugeParam
	metrics.RecordWorkerError(step)
	metrics.RecordErrorByComponent("worker", step)
	p.logger.Error(ctx, "ingestion step failed",
		logger.String("step", step),
		logger.String("submission_id", sub.SubmissionID),
		logger.Error(err))
	return fmt.Errorf("%s submission %s: %w", step, sub.SubmissionID, err)
}
