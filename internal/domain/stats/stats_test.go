package stats_test

import (
	"testing"

	"github.com/mindgrove/cortex/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMoments(t *testing.T) {
	Convey("Given a series of values", t, func() {
		values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

		Convey("Then the mean is correct", func() {
			So(stats.Mean(values), ShouldAlmostEqual, 5, 1e-9)
		})

		Convey("Then the variance is the population variance", func() {
			// Sum of squared deviations is 32 over 8 values, not 7.
			So(stats.Variance(values), ShouldAlmostEqual, 4, 1e-9)
			So(stats.Std(values), ShouldAlmostEqual, 2, 1e-9)
		})

		Convey("When the series is empty", func() {
			So(stats.Mean(nil), ShouldEqual, 0)
			So(stats.Variance(nil), ShouldEqual, 0)
		})
	})
}

func TestDiff(t *testing.T) {
	Convey("Given consecutive differences", t, func() {
		So(stats.Diff([]float64{1, 3, 2, 6}), ShouldResemble, []float64{2, -1, 4})
		So(stats.Diff([]float64{5}), ShouldBeNil)
	})
}

func TestFitLine(t *testing.T) {
	Convey("Given a least-squares fit over the index", t, func() {
		Convey("When the series is perfectly linear", func() {
			slope, intercept := stats.FitLine([]float64{10, 20, 30, 40})
			So(slope, ShouldAlmostEqual, 10, 1e-9)
			So(intercept, ShouldAlmostEqual, 10, 1e-9)
			So(stats.RSquared([]float64{10, 20, 30, 40}, slope, intercept), ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("When the series is flat", func() {
			slope, intercept := stats.FitLine([]float64{50, 50, 50})
			So(slope, ShouldEqual, 0)
			So(intercept, ShouldEqual, 50)

			Convey("Then zero total variance fits perfectly", func() {
				So(stats.RSquared([]float64{50, 50, 50}, slope, intercept), ShouldEqual, 1)
			})
		})

		Convey("When the series has one point", func() {
			slope, intercept := stats.FitLine([]float64{42})
			So(slope, ShouldEqual, 0)
			So(intercept, ShouldEqual, 42)
		})

		Convey("When the fit is poor, R-squared stays at or above zero", func() {
			y := []float64{50, 10, 90, 20}
			slope, intercept := stats.FitLine(y)
			So(stats.RSquared(y, slope, intercept), ShouldBeGreaterThanOrEqualTo, 0)
			So(stats.RSquared(y, slope, intercept), ShouldBeLessThanOrEqualTo, 1)
		})
	})
}

func TestRounding(t *testing.T) {
	Convey("Given the rounding helpers", t, func() {
		So(stats.Round1(1.26), ShouldAlmostEqual, 1.3, 1e-9)
		So(stats.Round2(1.016), ShouldAlmostEqual, 1.02, 1e-9)
		So(stats.Round3(0.66666), ShouldAlmostEqual, 0.667, 1e-9)
	})
}

func TestClamp(t *testing.T) {
	Convey("Given the clamp helper", t, func() {
		So(stats.Clamp(120, 0, 100), ShouldEqual, 100)
		So(stats.Clamp(-3, 0, 100), ShouldEqual, 0)
		So(stats.Clamp(55, 0, 100), ShouldEqual, 55)
	})
}
