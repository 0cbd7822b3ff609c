package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository/sqlite"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

func open(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBackend_InsertSelect(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		b := open(t)
		ctx := context.Background()
		base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When inserting a row without id", func() {
			var out model.MonitoringData
			err := b.Insert(ctx, model.TableMonitoring, map[string]any{
				"user_id":     "u1",
				"data_type":   "typing_speed",
				"score":       71,
				"recorded_at": base,
			}, &out)

			Convey("Then an id and created_at are assigned", func() {
				So(err, ShouldBeNil)
				So(out.ID, ShouldNotBeEmpty)
				So(out.CreatedAt.IsZero(), ShouldBeFalse)
				So(out.RecordedAt.Equal(base), ShouldBeTrue)
			})
		})

		Convey("When inserting the same id twice", func() {
			row := map[string]any{"id": "p1", "full_name": "Ada", "role": "senior"}
			So(b.Insert(ctx, model.TableProfiles, row, nil), ShouldBeNil)
			err := b.Insert(ctx, model.TableProfiles, row, nil)

			Convey("Then the second insert is a conflict", func() {
				So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
				So(errors.Is(err, repository.ErrBackend), ShouldBeFalse)
			})
		})

		Convey("When selecting with range filters and ordering", func() {
			for i, score := range []int{50, 60, 70, 80} {
				// Sub-second offsets check that fractional timestamps still sort chronologically.
				at := base.Add(time.Duration(i)*time.Hour + time.Duration(i)*500*time.Millisecond)
				err := b.Insert(ctx, model.TableMonitoring, map[string]any{
					"user_id": "u1", "data_type": "speech_pattern", "score": score, "recorded_at": at,
				}, nil)
				So(err, ShouldBeNil)
			}
			So(b.Insert(ctx, model.TableMonitoring, map[string]any{
				"user_id": "u2", "data_type": "speech_pattern", "score": 99, "recorded_at": base,
			}, nil), ShouldBeNil)

			var rows []model.MonitoringData
			q := repository.From(model.TableMonitoring).
				Eq("user_id", "u1").
				Gte("recorded_at", base.Add(time.Hour)).
				OrderBy("recorded_at", false).
				WithLimit(2)
			err := b.Select(ctx, q, &rows)

			Convey("Then only matching rows come back most recent first", func() {
				So(err, ShouldBeNil)
				got := []int{}
				for _, r := range rows {
					got = append(got, r.Score)
				}
				So(cmp.Diff([]int{80, 70}, got), ShouldBeEmpty)
			})

			Convey("And projections return only the named columns", func() {
				var scores []map[string]any
				err := b.Select(ctx, repository.From(model.TableMonitoring).Select("score").Eq("user_id", "u2"), &scores)
				So(err, ShouldBeNil)
				So(cmp.Diff([]map[string]any{{"score": float64(99)}}, scores), ShouldBeEmpty)
			})
		})

		Convey("When filtering on booleans", func() {
			So(b.Insert(ctx, model.TableAlerts, map[string]any{"user_id": "u1", "is_read": false, "title": "a"}, nil), ShouldBeNil)
			So(b.Insert(ctx, model.TableAlerts, map[string]any{"user_id": "u1", "is_read": true, "title": "b"}, nil), ShouldBeNil)

			var rows []model.Alert
			err := b.Select(ctx, repository.From(model.TableAlerts).Eq("is_read", false), &rows)

			Convey("Then the JSON boolean is compared", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Title, ShouldEqual, "a")
			})
		})

		Convey("When the table is not allowed", func() {
			var rows []map[string]any
			err := b.Select(ctx, repository.From("sqlite_master"), &rows)
			So(errors.Is(err, repository.ErrInvalidQuery), ShouldBeTrue)
			So(errors.Is(b.Insert(ctx, "secrets", map[string]any{}, nil), repository.ErrInvalidQuery), ShouldBeTrue)
		})
	})
}

func TestBackend_UpdateDelete(t *testing.T) {
	Convey("Given a stored alert", t, func() {
		b := open(t)
		ctx := context.Background()
		var a model.Alert
		So(b.Insert(ctx, model.TableAlerts, map[string]any{"user_id": "u1", "title": "t", "is_read": false}, &a), ShouldBeNil)

		Convey("When patching it", func() {
			resolved := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
			var out model.Alert
			err := b.Update(ctx, repository.From(model.TableAlerts).Eq("id", a.ID),
				map[string]any{"is_resolved": true, "resolved_at": resolved, "id": "hijack"}, &out)

			Convey("Then the row is merged and returned", func() {
				So(err, ShouldBeNil)
				So(out.ID, ShouldEqual, a.ID)
				So(out.IsResolved, ShouldBeTrue)
				So(out.Title, ShouldEqual, "t")
				So(out.ResolvedAt, ShouldNotBeNil)
				So(out.ResolvedAt.Equal(resolved), ShouldBeTrue)
			})
		})

		Convey("When patching a missing row", func() {
			err := b.Update(ctx, repository.From(model.TableAlerts).Eq("id", "missing"), map[string]any{"is_read": true}, &model.Alert{})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When deleting it", func() {
			So(b.Delete(ctx, repository.From(model.TableAlerts).Eq("id", a.ID)), ShouldBeNil)

			var rows []model.Alert
			So(b.Select(ctx, repository.From(model.TableAlerts), &rows), ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
