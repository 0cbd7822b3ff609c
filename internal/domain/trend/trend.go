// Package trend classifies cognitive-score movement and summarizes observation windows.
//
// All functions are pure and never sort or modify the input slice.
// Callers supply observations ordered most-recent-first.
package trend

import (
	"math"
	"time"
)

// Label is the classified direction of recent scores.
type Label string

// Trend labels.
const (
	Improving Label = "improving"
	Stable    Label = "stable"
	Declining Label = "declining"
)

// Window sizes and the comparison threshold are fixed for compatibility with
// existing dashboards; changing them changes every stored classification.
const (
	WindowSize = 5
	Threshold  = 5.0

	// minObservations is the smallest input that is classified at all.
	minObservations = 2
)

// Observation is a single scored data point.
type Observation struct {
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Windows holds the means that drove a classification.
type Windows struct {
	RecentAverage float64
	OlderAverage  float64
	RecentCount   int
	OlderCount    int
}

// Classify returns the trend label for observations ordered most-recent-first.
func Classify(observations []Observation) Label {
	label, _ := ClassifyWindows(observations)
	return label
}

// ClassifyWindows classifies like Classify and also reports the window means.
// With no older window the older mean equals the recent mean, which always
// yields Stable.
func ClassifyWindows(observations []Observation) (Label, Windows) {
	if len(observations) < minObservations {
		return Stable, Windows{}
	}

	recent := observations[:min(WindowSize, len(observations))]
	var older []Observation
	if len(observations) > WindowSize {
		older = observations[WindowSize:min(2*WindowSize, len(observations))]
	}

	w := Windows{
		RecentAverage: mean(recent),
		RecentCount:   len(recent),
		OlderCount:    len(older),
	}
	w.OlderAverage = w.RecentAverage
	if len(older) > 0 {
		w.OlderAverage = mean(older)
	}

	switch {
	case w.RecentAverage > w.OlderAverage+Threshold:
		return Improving, w
	case w.RecentAverage < w.OlderAverage-Threshold:
		return Declining, w
	default:
		return Stable, w
	}
}

// AverageScore returns the mean of all scores rounded to the nearest integer,
// or 0 for an empty sequence.
func AverageScore(observations []Observation) int {
	if len(observations) == 0 {
		return 0
	}
	return int(math.Round(mean(observations)))
}

// Stats bundles the summary shown on the monitoring page.
type Stats struct {
	AverageScore int           `json:"average_score"`
	Trend        Label         `json:"trend"`
	DataPoints   int           `json:"data_points"`
	Recent       []Observation `json:"recent_data"`
}

// Summarize computes the average and trend of observations in one pass over the API shape.
func Summarize(observations []Observation) Stats {
	return Stats{
		AverageScore: AverageScore(observations),
		Trend:        Classify(observations),
		DataPoints:   len(observations),
		Recent:       observations,
	}
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	switch l {
	case Improving, Stable, Declining:
		return true
	}
	return false
}

func mean(observations []Observation) float64 {
	sum := 0
	for _, o := range observations {
		sum += o.Score
	}
	return float64(sum) / float64(len(observations))
}
