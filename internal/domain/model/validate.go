package model

import "strings"

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate checks required fields and enums of a new profile.
func (p Profile) Validate() error {
	switch {
	case blank(p.FullName):
		return wrapField("full_name")
	case !p.Role.Valid():
		return wrapEnum("role", string(p.Role))
	}
	return nil
}

// Validate checks required fields and enums of a new alert.
func (a Alert) Validate() error {
	switch {
	case blank(a.UserID):
		return wrapField("user_id")
	case !a.AlertType.Valid():
		return wrapEnum("alert_type", string(a.AlertType))
	case !a.Severity.Valid():
		return wrapEnum("severity", string(a.Severity))
	case blank(a.Title):
		return wrapField("title")
	}
	return nil
}

// Validate checks required fields and enums of a new routine.
func (r DailyRoutine) Validate() error {
	switch {
	case blank(r.UserID):
		return wrapField("user_id")
	case !r.RoutineType.Valid():
		return wrapEnum("routine_type", string(r.RoutineType))
	case blank(r.Title):
		return wrapField("title")
	}
	return nil
}

// Validate checks required fields and enums of a catalogue exercise.
func (e CognitiveExercise) Validate() error {
	switch {
	case blank(e.Title):
		return wrapField("title")
	case !e.ExerciseType.Valid():
		return wrapEnum("exercise_type", string(e.ExerciseType))
	case !e.Difficulty.Valid():
		return wrapEnum("difficulty", string(e.Difficulty))
	}
	return nil
}

// Validate checks a finished exercise attempt.
func (p ExerciseProgress) Validate() error {
	switch {
	case blank(p.UserID):
		return wrapField("user_id")
	case blank(p.ExerciseID):
		return wrapField("exercise_id")
	case p.Score < 0 || p.Score > MaxScore:
		return ErrScoreRange
	case p.TimeTaken < 0:
		return wrapField("time_taken")
	}
	return nil
}

// Validate checks a caregiver assignment.
func (a CaregiverAssignment) Validate() error {
	switch {
	case blank(a.SeniorID):
		return wrapField("senior_id")
	case blank(a.CaregiverID):
		return wrapField("caregiver_id")
	case !a.Relationship.Valid():
		return wrapEnum("relationship", string(a.Relationship))
	}
	return nil
}
