package pitch_test

import (
	"testing"

	pitch "github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/smartystreets/goconvey/convey"
)

func TestAdjustPolarity(t *testing.T) {
	convey.Convey("Given movement polarity normalization", t, func() {
		convey.Convey("For right-handed pitchers", func() {
			convey.Convey("Then fastball-like movement is forced arm side (positive)", func() {
				for _, hb := range []float64{-1.2, 1.2} {
					got := pitch.AdjustPolarity(pitch.Observation{
						Type: pitch.Sinker, Throws: pitch.Right, HorzBreak: hb,
					})
					convey.So(got.HorzBreak, convey.ShouldEqual, 1.2)
				}
			})

			convey.Convey("Then breaking-like movement is forced glove side (negative)", func() {
				for _, hb := range []float64{-0.9, 0.9} {
					got := pitch.AdjustPolarity(pitch.Observation{
						Type: pitch.Slider, Throws: pitch.Right, HorzBreak: hb,
					})
					convey.So(got.HorzBreak, convey.ShouldEqual, -0.9)
				}
			})
		})

		convey.Convey("For left-handed pitchers the signs mirror", func() {
			convey.Convey("Then fastball-like movement becomes negative", func() {
				got := pitch.AdjustPolarity(pitch.Observation{
					Type: pitch.Changeup, Throws: pitch.Left, HorzBreak: 1.4,
				})
				convey.So(got.HorzBreak, convey.ShouldEqual, -1.4)
			})

			convey.Convey("Then breaking-like movement becomes positive", func() {
				got := pitch.AdjustPolarity(pitch.Observation{
					Type: pitch.Curveball, Throws: pitch.Left, HorzBreak: -0.7,
				})
				convey.So(got.HorzBreak, convey.ShouldEqual, 0.7)
			})
		})

		convey.Convey("For types outside both categories", func() {
			convey.Convey("Then movement passes through unchanged for either hand", func() {
				for _, hand := range []pitch.Hand{pitch.Right, pitch.Left} {
					got := pitch.AdjustPolarity(pitch.Observation{
						Type: pitch.Knuckleball, Throws: hand, HorzBreak: -0.33,
					})
					convey.So(got.HorzBreak, convey.ShouldEqual, -0.33)
				}
			})
		})

		convey.Convey("Then only the horizontal break is touched", func() {
			in := pitch.Observation{
				Pitcher: "Darvish, Yu", Type: pitch.Slider, Throws: pitch.Right,
				HorzBreak: 0.55, VertBreak: 0.12, ReleaseSpeed: 84.1,
			}
			got := pitch.AdjustPolarity(in)
			convey.So(got.VertBreak, convey.ShouldEqual, in.VertBreak)
			convey.So(got.ReleaseSpeed, convey.ShouldEqual, in.ReleaseSpeed)
			convey.So(got.Pitcher, convey.ShouldEqual, in.Pitcher)

			convey.Convey("And the input observation is not mutated", func() {
				convey.So(in.HorzBreak, convey.ShouldEqual, 0.55)
			})
		})

		convey.Convey("Then zero movement stays zero in every combination", func() {
			for _, tp := range []pitch.Type{pitch.FourSeam, pitch.Slider, pitch.Knuckleball} {
				for _, hand := range []pitch.Hand{pitch.Right, pitch.Left} {
					got := pitch.AdjustPolarity(pitch.Observation{Type: tp, Throws: hand})
					convey.So(got.HorzBreak, convey.ShouldEqual, 0.0)
				}
			}
		})
	})
}
