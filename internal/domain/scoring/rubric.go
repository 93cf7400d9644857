package scoring

import (
	"fmt"

	"github.com/okian/hacksphere/internal/domain/model"
)

// Supported per-category maxima.
const (
	RubricMaxStandard = 10
	RubricMaxExtended = 25
)

// Rubric bounds each of the four judge categories to [0, Max].
type Rubric struct {
	max int
}

// NewRubric returns a rubric with the given per-category maximum.
// Only 10 and 25 are supported.
func NewRubric(maxPerCategory int) (Rubric, error) {
	switch maxPerCategory {
	case RubricMaxStandard, RubricMaxExtended:
		return Rubric{max: maxPerCategory}, nil
	default:
		return Rubric{}, fmt.Errorf("%w: %d (want %d or %d)",
			ErrUnsupportedRubric, maxPerCategory, RubricMaxStandard, RubricMaxExtended)
	}
}

// DefaultRubric is the 0-10 rubric.
func DefaultRubric() Rubric {
	return Rubric{max: RubricMaxStandard}
}

// Max is the per-category maximum.
func (r Rubric) Max() int {
	if r.max == 0 {
		return RubricMaxStandard
	}
	return r.max
}

// Check reports the first category outside [0, Max] as a ValidationError.
func (r Rubric) Check(s model.SubScores) error {
	fields := []struct {
		name string
		v    int
	}{
		{"innovation", s.Innovation},
		{"technical", s.Technical},
		{"design", s.Design},
		{"impact", s.Impact},
	}
	for _, f := range fields {
		if f.v < 0 || f.v > r.Max() {
			return model.Invalid(f.name, "must be between 0 and %d, got %d", r.Max(), f.v)
		}
	}
	return nil
}
