package api

import (
	"context"
	"net/http"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/calls"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/dedupe"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

// ProfileStore reads and writes profiles.
type ProfileStore interface {
	List(ctx context.Context) ([]model.Profile, error)
	ListByRole(ctx context.Context, role model.UserRole) ([]model.Profile, error)
	Get(ctx context.Context, id string) (model.Profile, error)
	Create(ctx context.Context, p model.Profile) (model.Profile, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Profile, error)
	Delete(ctx context.Context, id string) error
}

// MonitoringStore reads monitoring rows.
type MonitoringStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.MonitoringData, error)
	ListByType(ctx context.Context, userID string, dt model.MonitoringDataType, limit int) ([]model.MonitoringData, error)
	AverageScore(ctx context.Context, userID string, days int) (float64, error)
}

// AlertStore reads and writes alerts.
type AlertStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Alert, error)
	ListUnread(ctx context.Context, userID string) ([]model.Alert, error)
	Create(ctx context.Context, a model.Alert) (model.Alert, error)
	MarkRead(ctx context.Context, id string) (model.Alert, error)
	MarkResolved(ctx context.Context, id string) (model.Alert, error)
	Delete(ctx context.Context, id string) error
}

// RoutineStore reads and writes daily routines.
type RoutineStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.DailyRoutine, error)
	ListByType(ctx context.Context, userID string, rt model.RoutineType) ([]model.DailyRoutine, error)
	ListToday(ctx context.Context, userID string) ([]model.DailyRoutine, error)
	Create(ctx context.Context, r model.DailyRoutine) (model.DailyRoutine, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.DailyRoutine, error)
	MarkCompleted(ctx context.Context, id string) (model.DailyRoutine, error)
	Delete(ctx context.Context, id string) error
}

// ExerciseStore reads the exercise catalogue.
type ExerciseStore interface {
	List(ctx context.Context) ([]model.CognitiveExercise, error)
	ListByType(ctx context.Context, et model.ExerciseType) ([]model.CognitiveExercise, error)
	Get(ctx context.Context, id string) (model.CognitiveExercise, error)
}

// ProgressStore reads and writes exercise attempts.
type ProgressStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.ExerciseProgress, error)
	Create(ctx context.Context, p model.ExerciseProgress) (model.ExerciseProgress, error)
	Stats(ctx context.Context, userID string, days int) ([]repository.Attempt, error)
}

// CaregiverStore reads and writes caregiver assignments.
type CaregiverStore interface {
	ListForSenior(ctx context.Context, seniorID string) ([]repository.Link, error)
	ListForCaregiver(ctx context.Context, caregiverID string) ([]repository.Link, error)
	Create(ctx context.Context, a model.CaregiverAssignment) (model.CaregiverAssignment, error)
	Delete(ctx context.Context, id string) error
}

// CallManager runs mock video calls.
type CallManager interface {
	Contacts() []calls.Contact
	Upcoming() []calls.Scheduled
	Start(userID, contactID string) (calls.Session, error)
	ToggleMute(id string) (calls.Session, error)
	ToggleVideo(id string) (calls.Session, error)
	End(id string) (calls.Session, error)
}

// Ingestor accepts monitoring submissions for asynchronous processing.
type Ingestor interface {
	dedupe.Deduper

	// Enqueue pushes a submission. Returns false on backpressure.
	Enqueue(ctx context.Context, sub model.Submission) bool
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	Stats(ctx context.Context) Stats
}

// Notifier receives alerts created through the API.
type Notifier interface {
	Publish(ctx context.Context, a model.Alert)
}

// Journal records mutating calls.
type Journal interface {
	Record(ctx context.Context, action, table, id, userID string)
}

// Deps bundles what the handlers need. Notifier, Journal and Live are optional.
type Deps struct {
	Profiles   ProfileStore
	Monitoring MonitoringStore
	Alerts     AlertStore
	Routines   RoutineStore
	Exercises  ExerciseStore
	Progress   ProgressStore
	Caregivers CaregiverStore
	Calls      CallManager
	Ingest     Ingestor
	Stats      StatsProvider
	Notifier   Notifier
	Journal    Journal
	Live       http.Handler
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, model.Alert) {}

type nopJournal struct{}

func (nopJournal) Record(context.Context, string, string, string, string) {}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Journal == nil {
		d.Journal = nopJournal{}
	}
	return d
}
