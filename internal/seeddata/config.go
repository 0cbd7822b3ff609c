// Package seeddata generates monitoring readings with a known trend shape,
// submits them to a running server and checks the trend it reports back.
package seeddata

import (
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
)

// Config holds the options of one seeding run.
type Config struct {
	BaseURL  string        // server base URL
	Users    int           // seniors to generate
	Readings int           // readings per senior
	DataType string        // monitoring data type
	Shape    trend.Label   // score trajectory to generate
	Workers  int           // concurrent submitters
	Timeout  time.Duration // per request
	Wait     time.Duration // how long to wait for ingestion
	Output   string        // optional JSON dump of the readings
	Verbose  bool
}

// Reading is one POST /monitoring body.
type Reading struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	DataType     string `json:"data_type"`
	Score        int    `json:"score"`
	RecordedAt   string `json:"recorded_at"`
}

// AckResponse is the submission acknowledgement.
type AckResponse struct {
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
	SubmissionID string `json:"submission_id"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Accepted   int
	Duplicate  int
	Failed     int
	Verified   int
	Mismatched int
	StartTime  time.Time
	Duration   time.Duration
}

// Defaults.
const (
	DefaultUsers    = 5
	DefaultReadings = 10
	DefaultDataType = "speech_pattern"
	DefaultTimeout  = 10 * time.Second
	DefaultWait     = 30 * time.Second

	// MinReadings gives the classifier a recent window and at least one older point.
	MinReadings = trend.WindowSize + 1

	pollInterval = 250 * time.Millisecond
)
