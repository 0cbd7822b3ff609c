// Package service wires storage, the ingestion pipeline and the notifiers
// into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/http/api"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/journal"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/mq/queue"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/mq/worker"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/notify"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository/rest"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository/sqlite"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/ws"
	"github.com/ayushkatiyar1508/brain-guard/internal/config"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/calls"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/dedupe"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/rules"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/scoring"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// ErrNotStarted is returned by accessors used before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns every long-lived component of the backend.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend  repository.Backend
	repos    *repository.Repositories
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	scorer   scoring.Scorer
	engine   *rules.Engine
	pool     *worker.Pool
	hub      *ws.Hub
	webhooks *notify.Webhooks
	journal  *journal.Journal
	calls    *calls.Manager

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	scoreWeights  map[string]float64
	defaultWeight float64
	backendCfg    config.Backend
	rulesFile     string
	hooks         []notify.Webhook
	journalCfg    journal.Config

	// State
	started     bool
	stopWatcher context.CancelFunc
	watcherDone chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache. Zero keeps every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScoreWeights sets per data type weights and the fallback weight.
func WithScoreWeights(weights map[string]float64, fallback float64) Option {
	return func(s *Service) {
		s.scoreWeights = weights
		if fallback > 0 {
			s.defaultWeight = fallback
		}
	}
}

// WithBackendConfig selects the storage backend.
func WithBackendConfig(b config.Backend) Option {
	return func(s *Service) { s.backendCfg = b }
}

// WithBackend uses an already opened backend. The service closes it on Stop.
func WithBackend(b repository.Backend) Option {
	return func(s *Service) { s.backend = b }
}

// WithRulesFile loads alert rules from path and reloads them on change.
func WithRulesFile(path string) Option {
	return func(s *Service) { s.rulesFile = path }
}

// WithWebhooks sets the alert delivery targets.
func WithWebhooks(hooks []config.Webhook) Option {
	return func(s *Service) {
		s.hooks = s.hooks[:0]
		for _, h := range hooks {
			s.hooks = append(s.hooks, notify.Webhook{Type: h.Type, URL: h.URL})
		}
	}
}

// WithJournal enables the activity journal.
func WithJournal(j config.Journal) Option {
	return func(s *Service) {
		s.journalCfg = journal.Config{File: j.File, MaxSizeMB: j.MaxSizeMB, MaxBackups: j.MaxBackups}
	}
}

// FromConfig translates a loaded configuration into options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithScoreWeights(cfg.ScoreWeights, cfg.DefaultScoreWeight),
		WithBackendConfig(cfg.Backend),
		WithRulesFile(cfg.RulesFile),
		WithWebhooks(cfg.Webhooks),
		WithJournal(cfg.Journal),
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10000,
		dedupeSize:    50000,
		defaultWeight: 1.0,
		backendCfg: config.Backend{
			Kind:       config.BackendSQLite,
			SQLitePath: sqlite.MemoryPath,
			Timeout:    10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens storage and starts the worker pool and the rules watcher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting brain guard service...")

	if s.backend == nil {
		b, err := s.openBackend(ctx)
		if err != nil {
			return err
		}
		s.backend = b
	}
	s.repos = repository.New(s.backend)

	ruleSet := rules.Defaults()
	if s.rulesFile != "" {
		loaded, err := rules.LoadFile(s.rulesFile)
		if err != nil {
			_ = s.backend.Close()
			s.backend = nil
			return fmt.Errorf("load rules: %w", err)
		}
		ruleSet = loaded
	}
	s.engine = rules.NewEngine(ruleSet)

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.scorer = scoring.NewWeightedScorer(scoring.WithWeights(s.scoreWeights, s.defaultWeight))
	s.hub = ws.New()
	s.webhooks = notify.NewWebhooks(s.hooks)
	s.journal = journal.New(s.journalCfg)
	s.calls = calls.NewManager()

	pipeline := worker.NewPipeline(s.scorer, s.repos.Monitoring, s.repos.Alerts, s.engine, s.notifier())
	s.pool = worker.NewPool(s.workerCount, s.queue, pipeline)
	s.pool.Start(ctx)

	if s.rulesFile != "" {
		wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.stopWatcher = cancel
		s.watcherDone = make(chan struct{})
		go func() {
			defer close(s.watcherDone)
			if err := rules.Watch(wctx, s.rulesFile, s.engine); err != nil {
				s.logger.Error(wctx, "rules watcher stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	s.logger.Info(ctx, "brain guard service started",
		logger.String("backend", s.backend.Name()),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("rules", s.engine.Len()),
		logger.Int("webhooks", s.webhooks.Len()),
		logger.Bool("journal", s.journal.Enabled()),
	)
	return nil
}

func (s *Service) openBackend(ctx context.Context) (repository.Backend, error) {
	switch kind := s.backendCfg.Resolved(); kind {
	case config.BackendREST:
		return rest.New(s.backendCfg.URL, s.backendCfg.APIKey, rest.WithTimeout(s.backendCfg.Timeout)), nil
	case config.BackendSQLite:
		b, err := sqlite.Open(ctx, s.backendCfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", kind)
	}
}

// notifier fans stored alerts out to live clients and webhooks.
func (s *Service) notifier() notify.Fanout {
	return notify.Fanout{s.hub, s.webhooks}
}

// Stop drains the queue, then closes the notifiers, the journal and storage.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping brain guard service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	if s.stopWatcher != nil {
		s.stopWatcher()
		<-s.watcherDone
		s.stopWatcher = nil
	}
	s.hub.Close()
	s.webhooks.Wait()
	if err := s.journal.Close(); err != nil {
		s.logger.Warn(ctx, "journal close failed", logger.Error(err))
	}
	if err := s.repos.Close(); err != nil {
		s.logger.Warn(ctx, "backend close failed", logger.Error(err))
	}
	s.backend = nil

	s.started = false
	s.logger.Info(ctx, "brain guard service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord forgets a submission id so that it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a reading for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool { //nolint:gocritic // hugeParam: queue item by value
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return false
	}
	s.logger.Debug(ctx, "enqueueing submission",
		logger.String("submission_id", sub.SubmissionID),
		logger.String("user_id", sub.UserID),
		logger.String("data_type", string(sub.DataType)),
	)
	return q.Enqueue(ctx, sub)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
	}
	if !s.started {
		return st
	}
	st.WorkerCount = s.pool.Size()
	st.QueueLength = s.queue.Len(ctx)
	st.DedupeSize = s.deduper.Size()
	st.HubClients = s.hub.Count()
	st.ActiveCalls = s.calls.ActiveCount()
	st.AlertRules = s.engine.Len()
	st.BackendKind = s.backend.Name()

	metrics.UpdateQueueSize(st.QueueLength)
	metrics.UpdateWorkerCount(st.WorkerCount)
	return st
}

// Repositories returns the typed repositories. Nil before Start.
func (s *Service) Repositories() *repository.Repositories {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repos
}

// Hub returns the live alert hub. Nil before Start.
func (s *Service) Hub() *ws.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// Deps assembles the HTTP handler dependencies.
func (s *Service) Deps() (api.Deps, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return api.Deps{}, ErrNotStarted
	}
	return api.Deps{
		Profiles:   s.repos.Profiles,
		Monitoring: s.repos.Monitoring,
		Alerts:     s.repos.Alerts,
		Routines:   s.repos.Routines,
		Exercises:  s.repos.Exercises,
		Progress:   s.repos.Progress,
		Caregivers: s.repos.Caregivers,
		Calls:      s.calls,
		Ingest:     s,
		Stats:      s,
		Notifier:   s.notifier(),
		Journal:    s.journal,
		Live:       s.hub,
	}, nil
}
