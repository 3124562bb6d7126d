package consistency_test

import (
	"errors"
	"testing"

	consistency "github.com/cuatro-costuras/pitchboard/internal/domain/consistency"
	pitch "github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMakeHistogram(t *testing.T) {
	Convey("Given equal-width histogram binning", t, func() {
		Convey("When binning a spread of values into four bins", func() {
			values := []float64{0, 1, 2, 3, 4, 4, 4, 8}
			hist, err := consistency.MakeHistogram(values, 4)

			Convey("Then the edges span min to max in equal widths", func() {
				So(err, ShouldBeNil)
				So(len(hist.Edges), ShouldEqual, 5)
				So(len(hist.Counts), ShouldEqual, 4)
				So(hist.Edges[0], ShouldEqual, 0.0)
				So(hist.Edges[1], ShouldEqual, 2.0)
				So(hist.Edges[2], ShouldEqual, 4.0)
				So(hist.Edges[3], ShouldEqual, 6.0)
			})

			Convey("And every value lands in exactly one bin", func() {
				total := 0
				for _, c := range hist.Counts {
					total += c
				}
				So(total, ShouldEqual, len(values))
			})

			Convey("And the counts follow the half-open bin convention", func() {
				// [0,2): 0,1  [2,4): 2,3  [4,6): 4,4,4  [6,8]: 8
				So(hist.Counts[0], ShouldEqual, 2)
				So(hist.Counts[1], ShouldEqual, 2)
				So(hist.Counts[2], ShouldEqual, 3)
				So(hist.Counts[3], ShouldEqual, 1)
			})
		})

		Convey("When every value is identical", func() {
			hist, err := consistency.MakeHistogram([]float64{1.5, 1.5, 1.5}, 3)

			Convey("Then the range is widened and all values share one bin", func() {
				So(err, ShouldBeNil)
				So(len(hist.Counts), ShouldEqual, 3)
				So(hist.Edges[0], ShouldAlmostEqual, 1.0)
				total := 0
				for _, c := range hist.Counts {
					total += c
				}
				So(total, ShouldEqual, 3)
				So(hist.Counts[1], ShouldEqual, 3)
			})
		})

		Convey("When the bin count is invalid", func() {
			_, err := consistency.MakeHistogram([]float64{1, 2}, 0)

			Convey("Then it reports invalid bins", func() {
				So(errors.Is(err, consistency.ErrInvalidBins), ShouldBeTrue)
			})
		})

		Convey("When there are no values", func() {
			_, err := consistency.MakeHistogram(nil, 4)

			Convey("Then it reports an insufficient sample", func() {
				So(errors.Is(err, consistency.ErrInsufficientSample), ShouldBeTrue)
			})
		})
	})
}

func TestCalculator_Histograms(t *testing.T) {
	Convey("Given a calculator reporting in inches", t, func() {
		calc := consistency.New(consistency.WithUnit(pitch.Inches))

		obs := group(
			[]float64{0.0, 0.5, 1.0, 1.0},
			[]float64{1.0, 1.0, 1.0, 2.0},
		)

		Convey("When binning both movement axes", func() {
			horz, vert, err := calc.Histograms(obs, 2)

			Convey("Then edges are reported in inches", func() {
				So(err, ShouldBeNil)
				So(horz.Edges[0], ShouldEqual, 0.0)
				So(horz.Edges[1], ShouldEqual, 6.0)
				So(vert.Edges[0], ShouldEqual, 12.0)
			})

			Convey("And counts cover all observations", func() {
				So(horz.Counts[0], ShouldEqual, 1)
				So(horz.Counts[1], ShouldEqual, 3)
				So(vert.Counts[0], ShouldEqual, 3)
				So(vert.Counts[1], ShouldEqual, 1)
			})
		})

		Convey("When the bin count is invalid", func() {
			_, _, err := calc.Histograms(obs, -1)

			Convey("Then it reports invalid bins", func() {
				So(errors.Is(err, consistency.ErrInvalidBins), ShouldBeTrue)
			})
		})
	})
}
