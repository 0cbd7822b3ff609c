package seeddata

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
)

// Score trajectories. Each shape moves between its endpoints across the run
// with up to ±jitter points of noise.
const (
	highScore   = 85
	lowScore    = 45
	stableScore = 70
	jitter      = 2
)

// ErrUnknownShape is returned for a shape other than the three trend labels.
var ErrUnknownShape = errors.New("unknown shape")

// ParseShape validates a shape name.
func ParseShape(s string) (trend.Label, error) {
	switch l := trend.Label(s); l {
	case trend.Improving, trend.Stable, trend.Declining:
		return l, nil
	default:
		return "", fmt.Errorf("%w %q: use improving, stable or declining", ErrUnknownShape, s)
	}
}

// Generate builds cfg.Readings readings for each of cfg.Users new seniors,
// oldest first, one minute apart and ending at now.
func Generate(cfg *Config, now time.Time) []Reading {
	out := make([]Reading, 0, cfg.Users*cfg.Readings)
	start := now.UTC().Add(-time.Duration(cfg.Readings-1) * time.Minute)
	for range cfg.Users {
		user := uuid.NewString()
		for i := range cfg.Readings {
			out = append(out, Reading{
				SubmissionID: uuid.NewString(),
				UserID:       user,
				DataType:     cfg.DataType,
				Score:        scoreAt(cfg.Shape, i, cfg.Readings),
				RecordedAt:   start.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			})
		}
	}
	return out
}

// scoreAt returns the i-th of n scores along shape.
func scoreAt(shape trend.Label, i, n int) int {
	var base float64
	switch shape {
	case trend.Declining:
		base = lerp(highScore, lowScore, i, n)
	case trend.Improving:
		base = lerp(lowScore, highScore, i, n)
	default:
		base = stableScore
	}
	return clamp(int(base) + noise())
}

func lerp(from, to float64, i, n int) float64 {
	if n < 2 {
		return from
	}
	return from + (to-from)*float64(i)/float64(n-1)
}

// noise returns a value in [-jitter, jitter].
func noise() int {
	n, err := rand.Int(rand.Reader, big.NewInt(2*jitter+1))
	if err != nil {
		return 0
	}
	return int(n.Int64()) - jitter
}

func clamp(v int) int {
	return max(0, min(100, v))
}

// usersOf returns the distinct user ids in order of first appearance.
func usersOf(readings []Reading) []string {
	seen := make(map[string]bool)
	var users []string
	for _, r := range readings {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			users = append(users, r.UserID)
		}
	}
	return users
}
