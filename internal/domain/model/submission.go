package model

import (
	"encoding/json"
	"strings"
	"time"
)

// MaxScore is the upper bound of every cognitive score.
const MaxScore = 100

// Submission is a monitoring reading accepted for asynchronous ingestion.
// Either Score or RawMetric carries the measurement; RawMetric is converted
// to a score by the scorer when Score is nil.
type Submission struct {
	SubmissionID string             // idempotency key
	UserID       string             // senior the reading belongs to
	DataType     MonitoringDataType // signal kind
	Score        *int               // 0..100 when already scored
	RawMetric    float64            // unscored measurement
	Value        json.RawMessage    // opaque detail payload
	RecordedAt   time.Time          // when the reading was taken
}

// Validate checks the fields every submission must carry.
func (s Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.UserID) == "":
		return wrapField("user_id")
	case !s.DataType.Valid():
		return wrapEnum("data_type", string(s.DataType))
	case s.RecordedAt.IsZero():
		return wrapField("recorded_at")
	}
	if s.Score != nil && (*s.Score < 0 || *s.Score > MaxScore) {
		return ErrScoreRange
	}
	return nil
}

// Row builds the monitoring_data row for a scored submission.
func (s Submission) Row(score int) MonitoringData {
	return MonitoringData{
		UserID:     s.UserID,
		DataType:   s.DataType,
		Value:      s.Value,
		Score:      score,
		RecordedAt: s.RecordedAt.UTC(),
	}
}
