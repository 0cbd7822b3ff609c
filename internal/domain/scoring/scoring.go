// Package scoring converts raw monitoring metrics into 0-100 cognitive scores.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

const defaultWeight = 1.0

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights sets per-data-type weights and the fallback weight.
// Non-positive weights are ignored.
func WithWeights(weights map[string]float64, fallback float64) Option {
	return func(s *WeightedScorer) {
		s.weights = make(map[model.MonitoringDataType]float64, len(weights))
		for dt, w := range weights {
			if w > 0 {
				s.weights[model.MonitoringDataType(dt)] = w
			}
		}
		if fallback > 0 {
			s.fallback = fallback
		}
	}
}

// Input is a raw metric of one data type.
type Input struct {
	UserID    string
	DataType  model.MonitoringDataType
	RawMetric float64
}

// Result contains the computed score.
type Result struct {
	UserID string
	Score  int
}

// Scorer computes a score from an input.
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// WeightedScorer scales the raw metric by a per-type weight and clamps it to 0..100.
type WeightedScorer struct {
	weights  map[model.MonitoringDataType]float64
	fallback float64
}

// NewWeightedScorer creates a scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		weights:  make(map[model.MonitoringDataType]float64),
		fallback: defaultWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the score for the given input.
func (s *WeightedScorer) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	if math.IsNaN(in.RawMetric) || math.IsInf(in.RawMetric, 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidMetric, in.RawMetric)
	}

	score := in.RawMetric * s.Weight(in.DataType)
	score = math.Max(0, math.Min(model.MaxScore, score))

	return Result{UserID: in.UserID, Score: int(math.Round(score))}, nil
}

// Weight returns the weight applied to a data type.
func (s *WeightedScorer) Weight(dt model.MonitoringDataType) float64 {
	if w, ok := s.weights[dt]; ok {
		return w
	}
	return s.fallback
}
