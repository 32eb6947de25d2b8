package skillset_test

import (
	"errors"
	"testing"

	"github.com/okian/msdcalc/internal/domain/skillset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScoresValidate(t *testing.T) {
	Convey("Given skillset scores", t, func() {
		Convey("When every field is inside [0, 1000]", func() {
			s := skillset.Scores{
				Overall: 21.3, Stream: 18.0, Jumpstream: 22.5, Handstream: 19.1,
				Stamina: 17.4, Jackspeed: 12.0, Chordjack: 14.8, Technical: 20.2,
			}

			Convey("Then validation passes", func() {
				So(s.Validate(), ShouldBeNil)
			})
		})

		Convey("When a field is negative", func() {
			s := skillset.Scores{Stream: -0.1}

			Convey("Then validation surfaces the fault", func() {
				So(errors.Is(s.Validate(), skillset.ErrScoreOutOfBounds), ShouldBeTrue)
			})
		})

		Convey("When a field exceeds 1000", func() {
			s := skillset.Scores{Technical: 1000.5}

			Convey("Then validation surfaces the fault", func() {
				So(errors.Is(s.Validate(), skillset.ErrScoreOutOfBounds), ShouldBeTrue)
			})
		})
	})
}

func TestDominant(t *testing.T) {
	Convey("Given dominant skillset resolution", t, func() {
		Convey("When one axis is clearly highest", func() {
			s := skillset.Scores{
				Overall: 10.0, Stream: 8.0, Jumpstream: 12.0, Handstream: 6.0,
				Stamina: 4.0, Jackspeed: 2.0, Chordjack: 1.0, Technical: 3.0,
			}

			Convey("Then that axis wins", func() {
				So(skillset.Dominant(s), ShouldEqual, "jumpstream")
			})
		})

		Convey("When two axes tie", func() {
			s := skillset.Scores{
				Overall: 15.0, Stream: 5.0, Jumpstream: 12.0, Handstream: 12.0,
				Stamina: 3.0, Jackspeed: 2.0, Chordjack: 1.0, Technical: 4.0,
			}

			Convey("Then the earlier canonical name wins deterministically", func() {
				for i := 0; i < 10; i++ {
					So(skillset.Dominant(s), ShouldEqual, "jumpstream")
				}
			})
		})

		Convey("When overall dwarfs everything", func() {
			s := skillset.Scores{Overall: 500.0, Stream: 1.0}

			Convey("Then overall is never a candidate", func() {
				So(skillset.Dominant(s), ShouldEqual, "stream")
			})
		})
	})
}

func TestTopPatterns(t *testing.T) {
	Convey("Given top pattern ranking", t, func() {
		s := skillset.Scores{
			Overall: 10.0, Stream: 8.0, Jumpstream: 12.0, Handstream: 6.0,
			Stamina: 4.0, Jackspeed: 2.0, Chordjack: 1.0, Technical: 3.0,
		}

		Convey("When asking for the top three", func() {
			top := skillset.TopPatterns(s, 3)

			Convey("Then they come highest first", func() {
				So(top, ShouldResemble, []string{"jumpstream", "stream", "handstream"})
			})
		})

		Convey("When asking for more than seven", func() {
			top := skillset.TopPatterns(s, 20)

			Convey("Then all seven are returned without padding", func() {
				So(len(top), ShouldEqual, 7)
				So(top[0], ShouldEqual, "jumpstream")
				So(top[6], ShouldEqual, "chordjack")
			})
		})

		Convey("When scores tie", func() {
			tied := skillset.Scores{
				Stream: 5.0, Jumpstream: 5.0, Handstream: 5.0,
			}
			top := skillset.TopPatterns(tied, 3)

			Convey("Then canonical order is preserved among equals", func() {
				So(top, ShouldResemble, []string{"stream", "jumpstream", "handstream"})
			})
		})

		Convey("When asking for zero or negative", func() {
			So(skillset.TopPatterns(s, 0), ShouldBeEmpty)
			So(skillset.TopPatterns(s, -1), ShouldBeEmpty)
		})
	})
}

func TestAliases(t *testing.T) {
	Convey("Given 6K/7K naming aliases", t, func() {
		s := skillset.Scores{Jumpstream: 11.0, Handstream: 9.0}

		Convey("Then chordstream mirrors jumpstream and bracketing mirrors handstream", func() {
			So(s.Chordstream(), ShouldEqual, 11.0)
			So(s.Bracketing(), ShouldEqual, 9.0)
		})
	})
}
