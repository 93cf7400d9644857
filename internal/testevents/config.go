package testevents

import (
	"strconv"
	"time"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
)

// Config holds configuration for a hackathon simulation.
type Config struct {
	BaseURL            string        // Base URL of the service
	Teams              int           // Teams to register
	SubmissionsPerTeam int           // Projects submitted by each team
	SoloSubmissions    int           // Projects submitted without a team
	Judges             int           // Judges scoring the projects
	Rounds             int           // Judging rounds
	Coverage           int           // Percent chance a judge scores a project in a round
	Rescores           int           // Scorecards revised after the first pass
	Workers            int           // Concurrent scorecard writers
	Timeout            time.Duration // HTTP request timeout
	Seed               uint64        // Faker seed, 0 picks a random one
	OutputFile         string        // Report file, empty to skip
	Verbose            bool          // Log every request
}

// Scorecard is one planned judge scorecard. Submission indexes the plan's
// submissions, so it can be planned before any ID exists.
type Scorecard struct {
	Submission int    `json:"submission"`
	JudgeID    string `json:"judge_id"`
	Round      int    `json:"round"`
	Innovation int    `json:"innovation"`
	Technical  int    `json:"technical"`
	Design     int    `json:"design"`
	Impact     int    `json:"impact"`
	Feedback   string `json:"feedback,omitempty"`
}

// Total is the sum of the four criteria.
func (s Scorecard) Total() int {
	return s.Innovation + s.Technical + s.Design + s.Impact
}

func (s Scorecard) slot() string {
	return s.JudgeID + "/" + strconv.Itoa(s.Submission) + "/" + strconv.Itoa(s.Round)
}

// SubmissionPlan is a planned project. Team indexes the plan's teams, -1 for
// a solo project.
type SubmissionPlan struct {
	Team        int      `json:"team"`
	SubmittedBy string   `json:"submitted_by"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url,omitempty"`
	VideoURL    string   `json:"video_url,omitempty"`
	Track       string   `json:"track,omitempty"`
	Tags        []string `json:"tags"`
}

// Plan is everything the simulation writes, in write order.
type Plan struct {
	Seed        uint64           `json:"seed"`
	Event       model.Event      `json:"event"`
	Teams       []model.Team     `json:"teams"`
	Submissions []SubmissionPlan `json:"submissions"`
	Scorecards  []Scorecard      `json:"scorecards"`
	Rescores    []Scorecard      `json:"rescores"`
}

// Leaderboard is the leaderboard response body.
type Leaderboard struct {
	EventID string        `json:"event_id"`
	Round   int           `json:"round"`
	Entries []types.Entry `json:"entries"`
}

// scoreResponse is the scorecard write response body.
type scoreResponse struct {
	Score    model.Score `json:"score"`
	Replaced bool        `json:"replaced"`
}

// Stats holds simulation statistics.
type Stats struct {
	TeamsCreated       int
	SubmissionsCreated int
	ScorecardsSent     int
	ScorecardsCreated  int
	ScorecardsReplaced int
	ScorecardsFailed   int
	RateLimited        int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
