package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnsupportedRubric = errors.New("unsupported rubric maximum")
)
