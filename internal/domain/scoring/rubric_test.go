package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/hacksphere/internal/domain/model"
	scoring "github.com/okian/hacksphere/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRubric(t *testing.T) {
	Convey("Given rubric construction", t, func() {
		Convey("Only 10 and 25 are supported", func() {
			r, err := scoring.NewRubric(25)
			So(err, ShouldBeNil)
			So(r.Max(), ShouldEqual, 25)

			_, err = scoring.NewRubric(20)
			So(errors.Is(err, scoring.ErrUnsupportedRubric), ShouldBeTrue)
		})

		Convey("The zero rubric behaves as the standard one", func() {
			So(scoring.Rubric{}.Max(), ShouldEqual, scoring.RubricMaxStandard)
		})
	})

	Convey("Given the standard rubric", t, func() {
		r := scoring.DefaultRubric()

		Convey("Values inside [0,10] pass", func() {
			So(r.Check(model.SubScores{Innovation: 0, Technical: 10, Design: 5, Impact: 10}), ShouldBeNil)
		})

		Convey("The first out-of-range category is named with the range", func() {
			err := r.Check(model.SubScores{Innovation: 8, Technical: 11, Design: -1})
			var verr *model.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Field, ShouldEqual, "technical")
			So(verr.Message, ShouldContainSubstring, "between 0 and 10")
		})

		Convey("Negative values fail", func() {
			So(errors.Is(r.Check(model.SubScores{Impact: -1}), model.ErrValidation), ShouldBeTrue)
		})
	})
}
