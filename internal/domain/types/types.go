// Package types contains the summary shapes returned by the HTTP API.
package types

import (
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
)

// DashboardStats is the landing-page summary for one user.
type DashboardStats struct {
	TotalAlerts           int    `json:"total_alerts"`
	UnreadAlerts          int    `json:"unread_alerts"`
	TodayRoutines         int    `json:"today_routines"`
	CompletedRoutines     int    `json:"completed_routines"`
	AverageCognitiveScore int    `json:"average_cognitive_score"`
	RecentActivity        string `json:"recent_activity"`
}

// MonitoringStats summarizes the latest readings of one data type.
type MonitoringStats struct {
	DataType     model.MonitoringDataType `json:"data_type"`
	AverageScore int                      `json:"average_score"`
	Trend        trend.Label              `json:"trend"`
	DataPoints   int                      `json:"data_points"`
	RecentData   []model.MonitoringData   `json:"recent_data"`
}

// NewMonitoringStats summarizes rows ordered most-recent-first.
func NewMonitoringStats(dataType model.MonitoringDataType, rows []model.MonitoringData) MonitoringStats {
	s := trend.Summarize(model.Observations(rows))
	if rows == nil {
		rows = []model.MonitoringData{}
	}
	return MonitoringStats{
		DataType:     dataType,
		AverageScore: s.AverageScore,
		Trend:        s.Trend,
		DataPoints:   s.DataPoints,
		RecentData:   rows,
	}
}

// Stats is the /stats payload.
type Stats struct {
	Started     bool   `json:"started"`
	WorkerCount int    `json:"worker_count"`
	QueueSize   int    `json:"queue_size"`
	QueueLength int    `json:"queue_length"`
	DedupeSize  int64  `json:"dedupe_size"`
	HubClients  int    `json:"hub_clients"`
	ActiveCalls int    `json:"active_calls"`
	AlertRules  int    `json:"alert_rules"`
	BackendKind string `json:"backend"`
}
