package types_test

import (
	"testing"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
	types "github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewMonitoringStats(t *testing.T) {
	Convey("Given no monitoring rows", t, func() {
		stats := types.NewMonitoringStats(model.TypingSpeed, nil)

		Convey("Then the summary is empty but well formed", func() {
			So(stats.AverageScore, ShouldEqual, 0)
			So(stats.Trend, ShouldEqual, trend.Stable)
			So(stats.DataPoints, ShouldEqual, 0)
			So(stats.RecentData, ShouldNotBeNil)
			So(stats.DataType, ShouldEqual, model.TypingSpeed)
		})
	})

	Convey("Given rows with a rising recent window", t, func() {
		now := time.Now().UTC()
		scores := []int{90, 88, 92, 91, 89, 70, 72, 68, 71, 69}
		rows := make([]model.MonitoringData, len(scores))
		for i, s := range scores {
			rows[i] = model.MonitoringData{Score: s, RecordedAt: now.Add(-time.Duration(i) * time.Hour)}
		}

		stats := types.NewMonitoringStats(model.SpeechPattern, rows)

		Convey("Then it is labelled improving with the overall mean", func() {
			So(stats.Trend, ShouldEqual, trend.Improving)
			So(stats.AverageScore, ShouldEqual, 80)
			So(stats.DataPoints, ShouldEqual, 10)
		})
	})
}
