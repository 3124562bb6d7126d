package pitch_test

import (
	"testing"

	pitch "github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/smartystreets/goconvey/convey"
)

func TestGroupKey(t *testing.T) {
	convey.Convey("Given a pitcher and a pitch type", t, func() {
		key := pitch.GroupKey{Pitcher: "deGrom, Jacob", Type: pitch.Slider}

		convey.Convey("When the key is rendered", func() {
			raw := key.String()

			convey.Convey("Then it joins pitcher and code with a pipe", func() {
				convey.So(raw, convey.ShouldEqual, "deGrom, Jacob|SL")
			})

			convey.Convey("Then parsing round-trips the key", func() {
				parsed, ok := pitch.ParseGroupKey(raw)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(parsed, convey.ShouldResemble, key)
			})
		})
	})

	convey.Convey("Given malformed raw keys", t, func() {
		convey.Convey("When parsing them", func() {
			cases := []string{"", "no-separator", "|FF", "deGrom, Jacob|"}

			convey.Convey("Then parsing reports failure", func() {
				for _, raw := range cases {
					_, ok := pitch.ParseGroupKey(raw)
					convey.So(ok, convey.ShouldBeFalse)
				}
			})
		})
	})
}
