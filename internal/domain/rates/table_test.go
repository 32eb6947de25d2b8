package rates_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIndex(t *testing.T) {
	Convey("Given the predefined rate table", t, func() {
		Convey("When looking up every tabled rate", func() {
			Convey("Then index and rate round-trip", func() {
				for i, r := range rates.Values() {
					idx, err := rates.Index(r)
					So(err, ShouldBeNil)
					So(idx, ShouldEqual, i)
					So(math.Abs(0.7+float64(idx)*0.1-r), ShouldBeLessThan, 1e-9)
				}
			})
		})

		Convey("When the rate is outside the table", func() {
			for _, r := range []float64{0.69, 2.01, 0.0, -1.0, 3.5} {
				_, err := rates.Index(r)
				So(errors.Is(err, rates.ErrRateOutOfRange), ShouldBeTrue)
			}
		})

		Convey("When the 1.0x slot is requested", func() {
			idx, err := rates.Index(1.0)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, rates.IdentityIndex)
		})
	})
}

func TestIndexWithTolerance(t *testing.T) {
	Convey("Given tolerance-based matching", t, func() {
		Convey("When the rate sits exactly on the grid", func() {
			for i, r := range rates.Values() {
				idx, ok := rates.IndexWithTolerance(r)
				So(ok, ShouldBeTrue)
				So(idx, ShouldEqual, i)
			}
		})

		Convey("When the rate is within tolerance of a slot", func() {
			idx, ok := rates.IndexWithTolerance(1.0004)
			So(ok, ShouldBeTrue)
			So(idx, ShouldEqual, rates.IdentityIndex)
		})

		Convey("When the rate falls between slots", func() {
			for _, r := range []float64{0.75, 1.05, 1.333, 0.701} {
				_, ok := rates.IndexWithTolerance(r)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestAllRates(t *testing.T) {
	Convey("Given an all-rates result", t, func() {
		var a rates.AllRates
		for i := range a.MSDs {
			a.MSDs[i] = skillset.Scores{Overall: float64(10 + i), Stream: float64(i)}
		}

		Convey("When validating in-band scores", func() {
			So(a.Validate(), ShouldBeNil)
		})

		Convey("When one entry is out of band", func() {
			a.MSDs[5].Jackspeed = 1001.0
			So(errors.Is(a.Validate(), skillset.ErrScoreOutOfBounds), ShouldBeTrue)
		})

		Convey("When reading a slot by rate", func() {
			s, err := a.At(1.2)
			So(err, ShouldBeNil)
			So(s.Overall, ShouldEqual, 15.0)
		})

		Convey("When projecting the keyed view", func() {
			keyed := a.Keyed(nil)

			Convey("Then keys are one-decimal rate strings", func() {
				So(len(keyed), ShouldEqual, rates.Count)
				So(keyed["0.7"].Overall, ShouldEqual, 10.0)
				So(keyed["2.0"].Overall, ShouldEqual, 23.0)
			})

			Convey("And a custom formatter controls the keys", func() {
				custom := a.Keyed(func(r float64) string { return fmt.Sprintf("%.2fx", r) })
				So(custom["1.00x"].Overall, ShouldEqual, 13.0)
			})

			Convey("And the projection does not mutate the source", func() {
				keyed["0.7"] = skillset.Scores{Overall: 999}
				So(a.MSDs[0].Overall, ShouldEqual, 10.0)
			})
		})
	})
}
