package model

import "fmt"

// UserRole is the role a profile plays.
type UserRole string

// User roles.
const (
	RoleSenior     UserRole = "senior"
	RoleCaregiver  UserRole = "caregiver"
	RoleHealthcare UserRole = "healthcare"
)

// MonitoringDataType is the kind of signal a reading came from.
type MonitoringDataType string

// Monitoring data types.
const (
	SpeechPattern MonitoringDataType = "speech_pattern"
	TypingSpeed   MonitoringDataType = "typing_speed"
	ActivityLevel MonitoringDataType = "activity_level"
)

// AlertType classifies alerts.
type AlertType string

// Alert types.
const (
	AlertCognitiveDecline AlertType = "cognitive_decline"
	AlertActivityChange   AlertType = "activity_change"
	AlertUrgent           AlertType = "urgent"
)

// AlertSeverity orders alerts by urgency.
type AlertSeverity string

// Alert severities.
const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// RoutineType classifies daily routines.
type RoutineType string

// Routine types.
const (
	RoutineMedication RoutineType = "medication"
	RoutineMeal       RoutineType = "meal"
	RoutineExercise   RoutineType = "exercise"
	RoutineSleep      RoutineType = "sleep"
	RoutineSocial     RoutineType = "social"
)

// ExerciseType classifies cognitive exercises.
type ExerciseType string

// Exercise types.
const (
	ExerciseMemory    ExerciseType = "memory"
	ExercisePuzzle    ExerciseType = "puzzle"
	ExerciseLanguage  ExerciseType = "language"
	ExerciseAttention ExerciseType = "attention"
)

// ExerciseDifficulty grades exercises.
type ExerciseDifficulty string

// Exercise difficulties.
const (
	DifficultyEasy   ExerciseDifficulty = "easy"
	DifficultyMedium ExerciseDifficulty = "medium"
	DifficultyHard   ExerciseDifficulty = "hard"
)

// RelationshipType describes how a caregiver relates to a senior.
type RelationshipType string

// Relationship types.
const (
	RelationshipFamily       RelationshipType = "family"
	RelationshipProfessional RelationshipType = "professional"
	RelationshipHealthcare   RelationshipType = "healthcare"
)

func (v UserRole) Valid() bool {
	return v == RoleSenior || v == RoleCaregiver || v == RoleHealthcare
}

func (v MonitoringDataType) Valid() bool {
	return v == SpeechPattern || v == TypingSpeed || v == ActivityLevel
}

func (v AlertType) Valid() bool {
	return v == AlertCognitiveDecline || v == AlertActivityChange || v == AlertUrgent
}

func (v AlertSeverity) Valid() bool {
	switch v {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func (v RoutineType) Valid() bool {
	switch v {
	case RoutineMedication, RoutineMeal, RoutineExercise, RoutineSleep, RoutineSocial:
		return true
	}
	return false
}

func (v ExerciseType) Valid() bool {
	switch v {
	case ExerciseMemory, ExercisePuzzle, ExerciseLanguage, ExerciseAttention:
		return true
	}
	return false
}

func (v ExerciseDifficulty) Valid() bool {
	return v == DifficultyEasy || v == DifficultyMedium || v == DifficultyHard
}

func (v RelationshipType) Valid() bool {
	return v == RelationshipFamily || v == RelationshipProfessional || v == RelationshipHealthcare
}

// validator is satisfied by every enum type in this package.
type validator interface {
	~string
	Valid() bool
}

// Parse converts s into the enum type T, rejecting unknown values.
func Parse[T validator](s string) (T, error) {
	v := T(s)
	if !v.Valid() {
		return v, fmt.Errorf("%w: %q", ErrInvalidEnum, s)
	}
	return v, nil
}
