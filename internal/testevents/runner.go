package testevents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/pkg/logger"
)

// Report is the outcome of a simulation.
type Report struct {
	Plan         *Plan              `json:"plan"`
	EventID      string             `json:"event_id"`
	Teams        []model.Team       `json:"teams"`
	Submissions  []model.Submission `json:"submissions"`
	Leaderboards []Leaderboard      `json:"leaderboards"`
	Stats        Stats              `json:"-"`
}

// Run simulates a hackathon against a running service: it registers an
// event with teams and projects, has judges score them concurrently, then
// checks the served leaderboards against a ranking recomputed from what it
// wrote.
func Run(ctx context.Context, config *Config) (*Report, error) {
	stats := Stats{StartTime: time.Now()}
	client := newHTTPClient(config.BaseURL, config.Timeout)

	logger.Get().Info(ctx, "starting hackathon simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("teams", config.Teams),
		logger.Int("judges", config.Judges),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	// Step 1: Check service health and read the rubric
	rubricMax, err := checkService(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Plan the hackathon
	plan := generatePlan(ctx, config, rubricMax)
	report := &Report{Plan: plan}

	// Step 3: Register the event, its teams and projects
	if err := register(ctx, client, plan, report, &stats); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	// Step 4: Judge, then revise some scorecards once the first pass is in
	ids := make([]string, len(report.Submissions))
	for i, sub := range report.Submissions {
		ids[i] = sub.ID
	}
	if err := submitScorecards(ctx, config, client, ids, plan.Scorecards, &stats); err != nil {
		return nil, fmt.Errorf("scorecard submission failed: %w", err)
	}
	if err := submitScorecards(ctx, config, client, ids, plan.Rescores, &stats); err != nil {
		return nil, fmt.Errorf("scorecard revision failed: %w", err)
	}

	// Step 5: Fetch the overall and per-round leaderboards
	for round := 0; round <= config.Rounds; round++ {
		board, err := getLeaderboard(ctx, client, report.EventID, round)
		if err != nil {
			return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
		}
		report.Leaderboards = append(report.Leaderboards, board)
	}
	if len(report.Leaderboards) > 0 {
		stats.LeaderboardEntries = len(report.Leaderboards[0].Entries)
		displayTopEntries(ctx, report.Leaderboards[0], config.Verbose)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, client, report); err != nil {
		return nil, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save the report
	if config.OutputFile != "" {
		if err := saveReport(ctx, config.OutputFile, report); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report.Stats = stats
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return report, nil
}

// checkService verifies the service is running and returns its rubric maximum.
func checkService(ctx context.Context, client *HTTPClient) (int, error) {
	if err := client.Get(ctx, "/healthz", nil); err != nil {
		return 0, fmt.Errorf("failed to reach service: %w", err)
	}
	var stats struct {
		RubricMax int `json:"rubric_max"`
	}
	if err := client.Get(ctx, "/stats", &stats); err != nil {
		return 0, fmt.Errorf("failed to read stats: %w", err)
	}
	if stats.RubricMax <= 0 {
		return 0, fmt.Errorf("service reported rubric maximum %d", stats.RubricMax)
	}
	logger.Get().Info(ctx, "service is healthy", logger.Int("rubricMax", stats.RubricMax))
	return stats.RubricMax, nil
}

// register creates the event, teams and submissions in plan order, so the
// service sees submissions in the same order the plan lists them.
func register(ctx context.Context, client *HTTPClient, plan *Plan, report *Report, stats *Stats) error {
	var event model.Event
	if _, err := client.Post(ctx, "/api/events", plan.Event, &event, http.StatusCreated); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	report.EventID = event.ID
	logger.Get().Info(ctx, "event created", logger.String("eventID", event.ID), logger.String("title", event.Title))

	for _, t := range plan.Teams {
		var team model.Team
		body := map[string]any{
			"name":        t.Name,
			"leader_id":   t.LeaderID,
			"members":     t.Members,
			"max_members": t.MaxMembers,
		}
		if _, err := client.Post(ctx, "/api/events/"+event.ID+"/teams", body, &team, http.StatusCreated); err != nil {
			return fmt.Errorf("create team %q: %w", t.Name, err)
		}
		report.Teams = append(report.Teams, team)
		stats.TeamsCreated++
	}

	for _, s := range plan.Submissions {
		body := map[string]any{
			"submitted_by": s.SubmittedBy,
			"title":        s.Title,
			"description":  s.Description,
			"repo_url":     s.RepoURL,
			"video_url":    s.VideoURL,
			"track":        s.Track,
			"tags":         s.Tags,
		}
		if s.Team >= 0 {
			body["team_id"] = report.Teams[s.Team].ID
		}
		var sub model.Submission
		if _, err := client.Post(ctx, "/api/events/"+event.ID+"/submissions", body, &sub, http.StatusCreated); err != nil {
			return fmt.Errorf("create submission %q: %w", s.Title, err)
		}
		report.Submissions = append(report.Submissions, sub)
		stats.SubmissionsCreated++
	}

	logger.Get().Info(ctx, "registration completed",
		logger.Int("teams", stats.TeamsCreated),
		logger.Int("submissions", stats.SubmissionsCreated))
	return nil
}

// saveReport writes the report as indented JSON.
func saveReport(ctx context.Context, filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final simulation statistics.
func displayFinalStats(ctx context.Context, stats Stats) {
	var successRate, writesPerSecond float64
	if stats.ScorecardsSent > 0 {
		successRate = float64(stats.ScorecardsSent-stats.ScorecardsFailed) / float64(stats.ScorecardsSent) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		writesPerSecond = float64(stats.ScorecardsSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("teamsCreated", stats.TeamsCreated),
		logger.Int("submissionsCreated", stats.SubmissionsCreated),
		logger.Int("scorecardsSent", stats.ScorecardsSent),
		logger.Int("scorecardsCreated", stats.ScorecardsCreated),
		logger.Int("scorecardsReplaced", stats.ScorecardsReplaced),
		logger.Int("scorecardsFailed", stats.ScorecardsFailed),
		logger.Int("rateLimited", stats.RateLimited),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("scorecardsPerSecond", writesPerSecond))
}
