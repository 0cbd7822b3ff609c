package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	model "github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEnums(t *testing.T) {
	convey.Convey("Given enum values", t, func() {
		convey.Convey("When parsing known values", func() {
			role, err := model.Parse[model.UserRole]("caregiver")
			convey.So(err, convey.ShouldBeNil)
			convey.So(role, convey.ShouldEqual, model.RoleCaregiver)

			dt, err := model.Parse[model.MonitoringDataType]("typing_speed")
			convey.So(err, convey.ShouldBeNil)
			convey.So(dt, convey.ShouldEqual, model.TypingSpeed)
		})

		convey.Convey("When parsing unknown values", func() {
			_, err := model.Parse[model.AlertSeverity]("apocalyptic")
			convey.So(errors.Is(err, model.ErrInvalidEnum), convey.ShouldBeTrue)

			_, err = model.Parse[model.RoutineType]("")
			convey.So(errors.Is(err, model.ErrInvalidEnum), convey.ShouldBeTrue)
		})

		convey.Convey("Then every declared constant is valid", func() {
			convey.So(model.AlertUrgent.Valid(), convey.ShouldBeTrue)
			convey.So(model.SeverityCritical.Valid(), convey.ShouldBeTrue)
			convey.So(model.RoutineSocial.Valid(), convey.ShouldBeTrue)
			convey.So(model.ExerciseAttention.Valid(), convey.ShouldBeTrue)
			convey.So(model.DifficultyHard.Valid(), convey.ShouldBeTrue)
			convey.So(model.RelationshipHealthcare.Valid(), convey.ShouldBeTrue)
		})
	})
}

func TestSubmission(t *testing.T) {
	convey.Convey("Given a submission", t, func() {
		score := 72
		sub := model.Submission{
			SubmissionID: "sub-1",
			UserID:       "senior-1",
			DataType:     model.SpeechPattern,
			Score:        &score,
			RecordedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)),
		}

		convey.Convey("When it is complete", func() {
			convey.So(sub.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the user is missing", func() {
			sub.UserID = " "
			convey.So(errors.Is(sub.Validate(), model.ErrMissingField), convey.ShouldBeTrue)
		})

		convey.Convey("When the data type is unknown", func() {
			sub.DataType = "heart_rate"
			convey.So(errors.Is(sub.Validate(), model.ErrInvalidEnum), convey.ShouldBeTrue)
		})

		convey.Convey("When the score is out of range", func() {
			bad := 101
			sub.Score = &bad
			convey.So(errors.Is(sub.Validate(), model.ErrScoreRange), convey.ShouldBeTrue)
		})

		convey.Convey("When building a row", func() {
			row := sub.Row(72)
			convey.So(row.UserID, convey.ShouldEqual, "senior-1")
			convey.So(row.Score, convey.ShouldEqual, 72)
			convey.So(row.RecordedAt.Location(), convey.ShouldEqual, time.UTC)
			convey.So(row.Observation().Score, convey.ShouldEqual, 72)
		})
	})
}

func TestRowJSON(t *testing.T) {
	convey.Convey("Given a hosted-table alert row", t, func() {
		raw := `{"id":"a1","user_id":"u1","alert_type":"urgent","severity":"high","title":"Fall",
			"description":null,"is_read":false,"is_resolved":true,
			"created_at":"2026-01-01T10:00:00Z","resolved_at":"2026-01-01T11:00:00Z"}`

		convey.Convey("When decoding it", func() {
			var a model.Alert
			err := json.Unmarshal([]byte(raw), &a)

			convey.Convey("Then column names map onto fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.AlertType, convey.ShouldEqual, model.AlertUrgent)
				convey.So(a.Description, convey.ShouldBeNil)
				convey.So(a.IsResolved, convey.ShouldBeTrue)
				convey.So(a.ResolvedAt, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestEntityValidate(t *testing.T) {
	convey.Convey("Given new entities", t, func() {
		convey.Convey("When a profile lacks a name or has an unknown role", func() {
			err := model.Profile{Role: model.RoleSenior}.Validate()
			convey.So(errors.Is(err, model.ErrMissingField), convey.ShouldBeTrue)
			err = model.Profile{FullName: "Ann", Role: "admin"}.Validate()
			convey.So(errors.Is(err, model.ErrInvalidEnum), convey.ShouldBeTrue)
			convey.So(model.Profile{FullName: "Ann", Role: model.RoleSenior}.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When an alert has a bad severity", func() {
			a := model.Alert{UserID: "u", AlertType: model.AlertUrgent, Severity: "meh", Title: "t"}
			convey.So(errors.Is(a.Validate(), model.ErrInvalidEnum), convey.ShouldBeTrue)
			a.Severity = model.SeverityLow
			convey.So(a.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a routine has no title", func() {
			r := model.DailyRoutine{UserID: "u", RoutineType: model.RoutineMeal}
			convey.So(errors.Is(r.Validate(), model.ErrMissingField), convey.ShouldBeTrue)
		})

		convey.Convey("When progress scores over the maximum", func() {
			p := model.ExerciseProgress{UserID: "u", ExerciseID: "e", Score: 101}
			convey.So(errors.Is(p.Validate(), model.ErrScoreRange), convey.ShouldBeTrue)
		})

		convey.Convey("When an assignment has an unknown relationship", func() {
			a := model.CaregiverAssignment{SeniorID: "s", CaregiverID: "c", Relationship: "neighbour"}
			convey.So(errors.Is(a.Validate(), model.ErrInvalidEnum), convey.ShouldBeTrue)
		})

		convey.Convey("When an exercise is complete", func() {
			e := model.CognitiveExercise{Title: "Recall", ExerciseType: model.ExerciseMemory, Difficulty: model.DifficultyEasy}
			convey.So(e.Validate(), convey.ShouldBeNil)
		})
	})
}
