package mathutil_test

import (
	"math"
	"testing"

	"github.com/okian/pitwall/pkg/mathutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound(t *testing.T) {
	Convey("Given values to round", t, func() {
		Convey("When rounding to one decimal", func() {
			So(mathutil.Round1(55.04), ShouldEqual, 55.0)
			So(mathutil.Round1(55.06), ShouldEqual, 55.1)
			So(mathutil.Round1(-3.26), ShouldEqual, -3.3)
			So(mathutil.Round1(0), ShouldEqual, 0)
		})

		Convey("When rounding to two decimals", func() {
			So(mathutil.Round(1.234, 2), ShouldEqual, 1.23)
			So(mathutil.Round(1.235001, 2), ShouldEqual, 1.24)
		})

		Convey("When places is not positive", func() {
			So(mathutil.Round(2.6, 0), ShouldEqual, 3)
			So(mathutil.Round(2.4, -1), ShouldEqual, 2)
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Given a range of [0, 1]", t, func() {
		So(mathutil.Clamp(-0.5, 0, 1), ShouldEqual, 0)
		So(mathutil.Clamp(0.25, 0, 1), ShouldEqual, 0.25)
		So(mathutil.Clamp(3, 0, 1), ShouldEqual, 1)
		So(mathutil.Clamp(math.NaN(), 0, 1), ShouldEqual, 0)
		So(mathutil.Clamp(math.Inf(1), 0, 1), ShouldEqual, 1)
	})
}

func TestFinite(t *testing.T) {
	Convey("Given non-finite inputs", t, func() {
		So(mathutil.Finite(math.NaN()), ShouldEqual, 0)
		So(mathutil.Finite(math.Inf(1)), ShouldEqual, 0)
		So(mathutil.Finite(math.Inf(-1)), ShouldEqual, 0)
		So(mathutil.Finite(12.5), ShouldEqual, 12.5)
	})
}
