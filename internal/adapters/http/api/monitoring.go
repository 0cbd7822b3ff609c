package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// submissionRequest mirrors the OpenAPI schema for POST /monitoring.
type submissionRequest struct {
	SubmissionID string          `json:"submission_id"`
	UserID       string          `json:"user_id"`
	DataType     string          `json:"data_type"`
	Score        *int            `json:"score"`
	RawMetric    *float64        `json:"raw_metric"`
	Value        json.RawMessage `json:"value"`
	RecordedAt   string          `json:"recorded_at"`
}

func (req submissionRequest) submission(now time.Time) (model.Submission, error) {
	if req.Score == nil && req.RawMetric == nil {
		return model.Submission{}, fmt.Errorf("%w: score or raw_metric is required", ErrBadRequest)
	}
	sub := model.Submission{
		SubmissionID: req.SubmissionID,
		UserID:       req.UserID,
		DataType:     model.MonitoringDataType(req.DataType),
		Score:        req.Score,
		Value:        req.Value,
		RecordedAt:   now,
	}
	if req.RawMetric != nil {
		sub.RawMetric = *req.RawMetric
	}
	if req.RecordedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return model.Submission{}, fmt.Errorf("%w: invalid recorded_at; must be RFC3339", ErrBadRequest)
		}
		sub.RecordedAt = ts
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	return sub, sub.Validate()
}

// MonitoringHandler serves ingestion and monitoring reads.
type MonitoringHandler struct {
	rows   MonitoringStore
	ingest Ingestor
	now    func() time.Time
}

// NewMonitoringHandler creates a monitoring handler.
func NewMonitoringHandler(rows MonitoringStore, ingest Ingestor) *MonitoringHandler {
	return &MonitoringHandler{rows: rows, ingest: ingest, now: time.Now}
}

// HandleSubmit handles POST /monitoring.
func (h *MonitoringHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_monitoring"
	var req submissionRequest
	if err := decode(r, &req); err != nil {
		metrics.RecordSubmissionRejected("decode")
		fail(w, r, Wrap(op, err))
		return
	}
	sub, err := req.submission(h.now())
	if err != nil {
		metrics.RecordSubmissionRejected("validation")
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	if h.ingest.SeenAndRecord(ctx, sub.SubmissionID) {
		metrics.RecordSubmissionDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, SubmissionID: sub.SubmissionID})
		return
	}
	if !h.ingest.Enqueue(ctx, sub) {
		h.ingest.Unrecord(ctx, sub.SubmissionID)
		metrics.RecordSubmissionRejected("backpressure")
		fail(w, r, NewKind(op, ErrBackpressure))
		return
	}
	metrics.RecordSubmissionAccepted()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SubmissionID: sub.SubmissionID})
}

// HandleList handles GET /monitoring/{user_id}?type=&limit=.
func (h *MonitoringHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_monitoring"
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	userID := r.PathValue("user_id")

	var rows []model.MonitoringData
	if raw := r.URL.Query().Get("type"); raw != "" {
		dt, perr := model.Parse[model.MonitoringDataType](raw)
		if perr != nil {
			fail(w, r, Wrap(op, perr))
			return
		}
		rows, err = h.rows.ListByType(r.Context(), userID, dt, limit)
	} else {
		rows, err = h.rows.ListByUser(r.Context(), userID, limit)
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleStats handles GET /monitoring/{user_id}/stats?type=.
func (h *MonitoringHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.monitoring_stats"
	dt := model.SpeechPattern
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := model.Parse[model.MonitoringDataType](raw)
		if err != nil {
			fail(w, r, Wrap(op, err))
			return
		}
		dt = parsed
	}
	rows, err := h.rows.ListByType(r.Context(), r.PathValue("user_id"), dt, repository.DefaultTypeLimit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewMonitoringStats(dt, rows))
}
