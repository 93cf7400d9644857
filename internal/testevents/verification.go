package testevents

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/okian/hacksphere/internal/domain/leaderboard"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
	"github.com/okian/hacksphere/pkg/logger"
)

// verifyResults recomputes every fetched leaderboard from what the
// simulation wrote and checks the event analytics agree with it.
func verifyResults(ctx context.Context, client *HTTPClient, report *Report) error {
	logger.Get().Info(ctx, "verifying results")

	scores := expectedScores(report)
	for _, board := range report.Leaderboards {
		want := leaderboard.Build(leaderboard.Input{
			Submissions: report.Submissions,
			Scores:      scores,
			Teams:       report.Teams,
			Round:       board.Round,
		})
		if err := verifyOrder(board.Entries); err != nil {
			return fmt.Errorf("round %d: %w", board.Round, err)
		}
		if diff := cmp.Diff(want, board.Entries); diff != "" {
			return fmt.Errorf("round %d leaderboard mismatch (-want +got):\n%s", board.Round, diff)
		}
	}

	var analytics types.Analytics
	if err := client.Get(ctx, "/api/events/"+report.EventID+"/analytics", &analytics); err != nil {
		return fmt.Errorf("analytics retrieval failed: %w", err)
	}
	switch {
	case analytics.Teams != len(report.Teams):
		return fmt.Errorf("analytics reports %d teams, registered %d", analytics.Teams, len(report.Teams))
	case analytics.Submissions != len(report.Submissions):
		return fmt.Errorf("analytics reports %d submissions, registered %d", analytics.Submissions, len(report.Submissions))
	case analytics.JudgeScores != len(scores):
		return fmt.Errorf("analytics reports %d scorecards, wrote %d", analytics.JudgeScores, len(scores))
	}

	logger.Get().Info(ctx, "result verification completed",
		logger.Int("leaderboards", len(report.Leaderboards)),
		logger.Int("scorecards", len(scores)))
	return nil
}

// expectedScores returns the scorecards the service should hold: one per
// judge, submission and round, the last write winning.
func expectedScores(report *Report) []model.Score {
	latest := make(map[string]int)
	var cards []Scorecard
	for _, pass := range [][]Scorecard{report.Plan.Scorecards, report.Plan.Rescores} {
		for _, card := range pass {
			if i, ok := latest[card.slot()]; ok {
				cards[i] = card
				continue
			}
			latest[card.slot()] = len(cards)
			cards = append(cards, card)
		}
	}

	out := make([]model.Score, 0, len(cards))
	for _, card := range cards {
		out = append(out, model.Score{
			SubmissionID: report.Submissions[card.Submission].ID,
			EventID:      report.EventID,
			JudgeID:      card.JudgeID,
			Round:        card.Round,
			Total:        card.Total(),
		})
	}
	return out
}

// verifyOrder checks entries descend by score and ranks are dense.
func verifyOrder(entries []types.Entry) error {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		switch {
		case cur.Score > prev.Score:
			return fmt.Errorf("entry %d (%.1f) outscores entry %d (%.1f)", i, cur.Score, i-1, prev.Score)
		case cur.Rank != prev.Rank && cur.Rank != prev.Rank+1:
			return fmt.Errorf("rank jumps from %d to %d at entry %d", prev.Rank, cur.Rank, i)
		}
	}
	return nil
}
