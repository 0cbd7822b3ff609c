package calls_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/calls"
)

func TestManager(t *testing.T) {
	Convey("Given a call manager", t, func() {
		at := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
		m := calls.NewManager(calls.WithClock(func() time.Time { return at }))

		Convey("Then the directory and schedule are available", func() {
			So(m.Contacts(), ShouldHaveLength, 4)
			So(m.Upcoming(), ShouldHaveLength, 2)
		})

		Convey("When calling an online contact", func() {
			s, err := m.Start("senior-1", "1")

			Convey("Then a session starts with video on", func() {
				So(err, ShouldBeNil)
				So(s.Active, ShouldBeTrue)
				So(s.VideoEnabled, ShouldBeTrue)
				So(s.Muted, ShouldBeFalse)
				So(s.Contact.Name, ShouldEqual, "Dr. Sarah Johnson")
				So(s.StartedAt, ShouldEqual, at)
				So(m.ActiveCount(), ShouldEqual, 1)
			})

			Convey("And a second call by the same user is refused", func() {
				_, err := m.Start("senior-1", "2")
				So(errors.Is(err, calls.ErrBusy), ShouldBeTrue)
			})

			Convey("And toggles flip the flags", func() {
				s, err := m.ToggleMute(s.ID)
				So(err, ShouldBeNil)
				So(s.Muted, ShouldBeTrue)
				s, err = m.ToggleVideo(s.ID)
				So(err, ShouldBeNil)
				So(s.VideoEnabled, ShouldBeFalse)

				Convey("And ending resets them", func() {
					ended, err := m.End(s.ID)
					So(err, ShouldBeNil)
					So(ended.Active, ShouldBeFalse)
					So(ended.Muted, ShouldBeFalse)
					So(ended.VideoEnabled, ShouldBeTrue)
					So(ended.EndedAt, ShouldNotBeNil)
					So(m.ActiveCount(), ShouldEqual, 0)

					_, err = m.ToggleMute(s.ID)
					So(errors.Is(err, calls.ErrNoSession), ShouldBeTrue)

					got, err := m.Get(s.ID)
					So(err, ShouldBeNil)
					So(got.Active, ShouldBeFalse)
				})
			})
		})

		Convey("When calling an offline contact", func() {
			_, err := m.Start("senior-1", "3")
			So(errors.Is(err, calls.ErrOffline), ShouldBeTrue)
		})

		Convey("When calling a busy contact", func() {
			_, err := m.Start("senior-1", "4")
			So(err, ShouldBeNil)
		})

		Convey("When calling an unknown contact", func() {
			_, err := m.Start("senior-1", "99")
			So(errors.Is(err, calls.ErrUnknownContact), ShouldBeTrue)
			_, err = m.End("nope")
			So(errors.Is(err, calls.ErrNoSession), ShouldBeTrue)
		})
	})
}
