// Package model contains the caregiving domain rows exchanged with the table store.
// JSON names follow the hosted tables' column names.
package model

import (
	"encoding/json"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
)

// Table names in the table store.
const (
	TableProfiles    = "profiles"
	TableMonitoring  = "monitoring_data"
	TableAlerts      = "alerts"
	TableRoutines    = "daily_routines"
	TableExercises   = "cognitive_exercises"
	TableProgress    = "exercise_progress"
	TableAssignments = "caregiver_assignments"
)

// Tables lists every table the service reads or writes.
var Tables = []string{
	TableProfiles,
	TableMonitoring,
	TableAlerts,
	TableRoutines,
	TableExercises,
	TableProgress,
	TableAssignments,
}

// Profile is a user of the dashboard.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Role        UserRole  `json:"role"`
	DateOfBirth *string   `json:"date_of_birth"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MonitoringData is one scored reading from the monitoring subsystem.
type MonitoringData struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	DataType   MonitoringDataType `json:"data_type"`
	Value      json.RawMessage    `json:"value,omitempty"`
	Score      int                `json:"score"`
	RecordedAt time.Time          `json:"recorded_at"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Observation projects the row onto the trend input shape.
func (m MonitoringData) Observation() trend.Observation {
	return trend.Observation{Score: m.Score, RecordedAt: m.RecordedAt}
}

// Observations projects rows in their given order.
func Observations(rows []MonitoringData) []trend.Observation {
	out := make([]trend.Observation, len(rows))
	for i, r := range rows {
		out[i] = r.Observation()
	}
	return out
}

// Alert notifies caregivers about a change in a senior's condition.
type Alert struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	AlertType   AlertType     `json:"alert_type"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	IsRead      bool          `json:"is_read"`
	IsResolved  bool          `json:"is_resolved"`
	CreatedAt   time.Time     `json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at"`
}

// DailyRoutine is a scheduled daily activity.
type DailyRoutine struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	RoutineType   RoutineType `json:"routine_type"`
	Title         string      `json:"title"`
	Description   *string     `json:"description"`
	ScheduledTime *string     `json:"scheduled_time"`
	CompletedAt   *time.Time  `json:"completed_at"`
	Notes         *string     `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Completed reports whether the routine has been done.
func (r DailyRoutine) Completed() bool { return r.CompletedAt != nil }

// CognitiveExercise is an entry of the exercise catalogue.
type CognitiveExercise struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  *string            `json:"description"`
	ExerciseType ExerciseType       `json:"exercise_type"`
	Difficulty   ExerciseDifficulty `json:"difficulty"`
	Instructions *string            `json:"instructions"`
	Content      json.RawMessage    `json:"content,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ExerciseProgress records one completed exercise attempt.
type ExerciseProgress struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ExerciseID  string    `json:"exercise_id"`
	Score       int       `json:"score"`
	TimeTaken   int       `json:"time_taken"`
	CompletedAt time.Time `json:"completed_at"`
}

// CaregiverAssignment links a senior with a caregiver.
type CaregiverAssignment struct {
	ID           string           `json:"id"`
	SeniorID     string           `json:"senior_id"`
	CaregiverID  string           `json:"caregiver_id"`
	Relationship RelationshipType `json:"relationship"`
	CreatedAt    time.Time        `json:"created_at"`
}
