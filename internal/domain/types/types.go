// Package types contains read-side shapes shared by the service and its adapters.
package types

// EntryKind says whether a leaderboard entry stands for a team or a single submission.
type EntryKind string

// Entry kinds.
const (
	KindTeam       EntryKind = "team"
	KindSubmission EntryKind = "submission"
)

// ScoreSource says where an entry's score came from.
type ScoreSource string

// Score sources.
const (
	SourceJudges    ScoreSource = "judges"
	SourceHeuristic ScoreSource = "heuristic"
)

// Entry is one ranked row of an event leaderboard.
type Entry struct {
	Rank            int         `json:"rank"`
	Kind            EntryKind   `json:"kind"`
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Score           float64     `json:"score"`
	Source          ScoreSource `json:"source"`
	JudgeScores     int         `json:"judge_scores"`
	SubmissionCount int         `json:"submissions"`
}

// Analytics are the organizer's headline counts for an event.
type Analytics struct {
	EventID             string `json:"event_id"`
	Participants        int    `json:"participants"`
	Teams               int    `json:"teams"`
	Submissions         int    `json:"submissions"`
	ScoredSubmissions   int    `json:"scored_submissions"`
	JudgeScores         int    `json:"judge_scores"`
	Milestones          int    `json:"milestones"`
	CompletedMilestones int    `json:"completed_milestones"`
	CompletionPercent   int    `json:"completion_percent"`
}
