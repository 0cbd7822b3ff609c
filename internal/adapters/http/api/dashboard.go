package api

import (
	"context"
	"math"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

const noRecentActivity = "No recent activity"

// DashboardHandler builds the per-user landing summary.
type DashboardHandler struct {
	alerts     AlertStore
	routines   RoutineStore
	monitoring MonitoringStore
	logger     logger.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(alerts AlertStore, routines RoutineStore, monitoring MonitoringStore) *DashboardHandler {
	return &DashboardHandler{
		alerts:     alerts,
		routines:   routines,
		monitoring: monitoring,
		logger:     logger.Get().Named("dashboard"),
	}
}

// HandleGet handles GET /dashboard/{user_id}. The three lookups run
// concurrently and each failure degrades its part to empty or zero.
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	ctx := r.Context()

	var (
		unread  []model.Alert
		today   []model.DailyRoutine
		average float64
	)
	var g errgroup.Group
	g.Go(func() error {
		rows, err := h.alerts.ListUnread(ctx, userID)
		unread = degrade(ctx, h, "unread_alerts", err, rows)
		return nil
	})
	g.Go(func() error {
		rows, err := h.routines.ListToday(ctx, userID)
		today = degrade(ctx, h, "today_routines", err, rows)
		return nil
	})
	g.Go(func() error {
		avg, err := h.monitoring.AverageScore(ctx, userID, repository.DefaultAverageDays)
		if err != nil {
			h.warn(ctx, "average_score", err)
			avg = 0
		}
		average = avg
		return nil
	})
	_ = g.Wait()

	writeJSON(w, http.StatusOK, summarize(unread, today, average))
}

func summarize(unread []model.Alert, today []model.DailyRoutine, average float64) types.DashboardStats {
	completed := 0
	for _, rt := range today {
		if rt.Completed() {
			completed++
		}
	}
	activity := noRecentActivity
	if len(unread) > 0 {
		activity = unread[0].Title
	}
	return types.DashboardStats{
		TotalAlerts:           len(unread),
		UnreadAlerts:          len(unread),
		TodayRoutines:         len(today),
		CompletedRoutines:     completed,
		AverageCognitiveScore: int(math.Round(average)),
		RecentActivity:        activity,
	}
}

func (h *DashboardHandler) warn(ctx context.Context, part string, err error) {
	h.logger.Warn(ctx, "dashboard lookup failed", logger.String("part", part), logger.Error(err))
}

func degrade[T any](ctx context.Context, h *DashboardHandler, part string, err error, rows []T) []T {
	if err != nil {
		h.warn(ctx, part, err)
		return nil
	}
	return rows
}
