package trend_test

import (
	"testing"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/trend"
	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
)

// series builds observations most-recent-first, one hour apart.
func series(scores ...int) []trend.Observation {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]trend.Observation, len(scores))
	for i, s := range scores {
		out[i] = trend.Observation{Score: s, RecordedAt: base.Add(-time.Duration(i) * time.Hour)}
	}
	return out
}

func TestClassify(t *testing.T) {
	Convey("Given too few observations", t, func() {
		Convey("An empty sequence is stable", func() {
			So(trend.Classify(nil), ShouldEqual, trend.Stable)
			So(trend.Classify([]trend.Observation{}), ShouldEqual, trend.Stable)
		})

		Convey("A single observation is stable", func() {
			So(trend.Classify(series(10)), ShouldEqual, trend.Stable)
			So(trend.Classify(series(100)), ShouldEqual, trend.Stable)
		})
	})

	Convey("Given a full recent and older window", t, func() {
		Convey("Scenario A: a clearly higher recent window is improving", func() {
			obs := series(90, 88, 92, 91, 89, 70, 72, 68, 71, 69)
			label, w := trend.ClassifyWindows(obs)
			So(label, ShouldEqual, trend.Improving)
			So(w.RecentAverage, ShouldEqual, 90)
			So(w.OlderAverage, ShouldEqual, 70)
			So(w.RecentCount, ShouldEqual, 5)
			So(w.OlderCount, ShouldEqual, 5)
		})

		Convey("Scenario B: near-identical windows are stable", func() {
			obs := series(70, 71, 69, 70, 72, 70, 69, 71, 70, 72)
			label, w := trend.ClassifyWindows(obs)
			So(label, ShouldEqual, trend.Stable)
			So(w.RecentAverage, ShouldAlmostEqual, 70.4, 0.0001)
			So(w.OlderAverage, ShouldAlmostEqual, 70.4, 0.0001)
		})

		Convey("Scenario C: a clearly lower recent window is declining", func() {
			obs := series(60, 58, 62, 59, 61, 80, 82, 78, 81, 79)
			label, w := trend.ClassifyWindows(obs)
			So(label, ShouldEqual, trend.Declining)
			So(w.RecentAverage, ShouldEqual, 60)
			So(w.OlderAverage, ShouldEqual, 80)
		})

		Convey("A difference of exactly the threshold stays stable", func() {
			So(trend.Classify(series(75, 75, 75, 75, 75, 70, 70, 70, 70, 70)), ShouldEqual, trend.Stable)
			So(trend.Classify(series(65, 65, 65, 65, 65, 70, 70, 70, 70, 70)), ShouldEqual, trend.Stable)
		})

		Convey("Observations beyond the tenth are ignored", func() {
			base := series(60, 60, 60, 60, 60, 60, 60, 60, 60, 60)
			withTail := append(series(60, 60, 60, 60, 60, 60, 60, 60, 60, 60), series(0, 0, 0)...)
			So(trend.Classify(withTail), ShouldEqual, trend.Classify(base))
			So(trend.Classify(withTail), ShouldEqual, trend.Stable)
		})
	})

	Convey("Given no older window", t, func() {
		Convey("Scenario D: three observations fall back to the recent mean", func() {
			for _, obs := range [][]trend.Observation{series(100, 0, 50), series(0, 100, 100), series(10, 90, 40)} {
				label, w := trend.ClassifyWindows(obs)
				So(label, ShouldEqual, trend.Stable)
				So(w.OlderAverage, ShouldEqual, w.RecentAverage)
				So(w.OlderCount, ShouldEqual, 0)
			}
		})

		Convey("Exactly five observations are always stable", func() {
			So(trend.Classify(series(100, 100, 0, 0, 0)), ShouldEqual, trend.Stable)
		})
	})

	Convey("Given six observations", t, func() {
		Convey("The older window holds the single sixth observation", func() {
			label, w := trend.ClassifyWindows(series(90, 90, 90, 90, 90, 50))
			So(w.OlderCount, ShouldEqual, 1)
			So(w.OlderAverage, ShouldEqual, 50)
			So(label, ShouldEqual, trend.Improving)
		})

		Convey("A matching sixth observation keeps the trend stable", func() {
			label, w := trend.ClassifyWindows(series(80, 80, 80, 80, 80, 80))
			So(w.OlderAverage, ShouldEqual, w.RecentAverage)
			So(label, ShouldEqual, trend.Stable)
		})
	})
}

func TestAverageScore(t *testing.T) {
	Convey("Given observation sequences", t, func() {
		Convey("An empty sequence averages to zero", func() {
			So(trend.AverageScore(nil), ShouldEqual, 0)
		})

		Convey("Two scores average to their midpoint", func() {
			So(trend.AverageScore(series(80, 60)), ShouldEqual, 70)
		})

		Convey("The whole sequence is averaged, not a window", func() {
			obs := series(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 0, 0)
			So(trend.AverageScore(obs), ShouldEqual, 83)
		})

		Convey("Fractional means are rounded half up", func() {
			So(trend.AverageScore(series(70, 71)), ShouldEqual, 71)
			So(trend.AverageScore(series(70, 70, 71)), ShouldEqual, 70)
		})
	})
}

func TestPurity(t *testing.T) {
	Convey("Given an input sequence", t, func() {
		obs := series(60, 58, 62, 59, 61, 80, 82, 78, 81, 79)
		snapshot := append([]trend.Observation(nil), obs...)

		Convey("Repeated calls return identical results", func() {
			So(trend.Classify(obs), ShouldEqual, trend.Classify(obs))
			So(trend.AverageScore(obs), ShouldEqual, trend.AverageScore(obs))
		})

		Convey("Neither call mutates the input", func() {
			_ = trend.Classify(obs)
			_ = trend.AverageScore(obs)
			_ = trend.Summarize(obs)
			So(cmp.Diff(snapshot, obs), ShouldBeEmpty)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a declining sequence", t, func() {
		obs := series(60, 58, 62, 59, 61, 80, 82, 78, 81, 79)

		Convey("Summarize reports average, trend and count", func() {
			stats := trend.Summarize(obs)
			So(stats.AverageScore, ShouldEqual, 70)
			So(stats.Trend, ShouldEqual, trend.Declining)
			So(stats.DataPoints, ShouldEqual, 10)
			So(len(stats.Recent), ShouldEqual, 10)
		})
	})

	Convey("Given label values", t, func() {
		So(trend.Improving.Valid(), ShouldBeTrue)
		So(trend.Stable.Valid(), ShouldBeTrue)
		So(trend.Declining.Valid(), ShouldBeTrue)
		So(trend.Label("sideways").Valid(), ShouldBeFalse)
	})
}
