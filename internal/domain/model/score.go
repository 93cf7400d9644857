package model

import "time"

// DefaultRound is the round a scorecard belongs to when none is given.
const DefaultRound = 1

// SubScores are a judge's ratings in the four rubric categories.
type SubScores struct {
	Innovation int `json:"innovation"`
	Technical  int `json:"technical"`
	Design     int `json:"design"`
	Impact     int `json:"impact"`
}

// Total is the sum of the four categories.
func (s SubScores) Total() int {
	return s.Innovation + s.Technical + s.Design + s.Impact
}

// Score is one judge's scorecard for a submission in a round. There is at
// most one live Score per (SubmissionID, JudgeID, Round).
type Score struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id"`
	// EventID is denormalized from the submission for per-event reads.
	EventID  string `json:"event_id"`
	JudgeID  string `json:"judge_id"`
	Round    int    `json:"round"`
	SubScores
	Total     int       `json:"total"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreKey identifies the live scorecard slot of a Score.
type ScoreKey struct {
	SubmissionID string
	JudgeID      string
	Round        int
}

// Key returns the scorecard slot of s.
func (s *Score) Key() ScoreKey {
	return ScoreKey{SubmissionID: s.SubmissionID, JudgeID: s.JudgeID, Round: s.Round}
}

// Recompute sets Total from the sub-scores, discarding any supplied value.
func (s *Score) Recompute() {
	s.Total = s.SubScores.Total()
}
