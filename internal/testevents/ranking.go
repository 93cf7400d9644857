package testevents

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/hacksphere/pkg/logger"
)

const displayedEntries = 10

// getLeaderboard fetches an event leaderboard; round 0 pools every round.
func getLeaderboard(ctx context.Context, client *HTTPClient, eventID string, round int) (Leaderboard, error) {
	path := "/api/events/" + eventID + "/leaderboard"
	if round > 0 {
		path += "?round=" + strconv.Itoa(round)
	}
	var board Leaderboard
	if err := client.Get(ctx, path, &board); err != nil {
		return Leaderboard{}, err
	}
	if board.EventID != eventID || board.Round != round {
		return Leaderboard{}, fmt.Errorf("leaderboard for %s round %d answered for %s round %d", eventID, round, board.EventID, board.Round)
	}
	logger.Get().Info(ctx, "leaderboard retrieved",
		logger.Int("round", round),
		logger.Int("entries", len(board.Entries)))
	return board, nil
}

// displayTopEntries logs the head of a leaderboard, or all of it when verbose.
func displayTopEntries(ctx context.Context, board Leaderboard, verbose bool) {
	limit := min(displayedEntries, len(board.Entries))
	if verbose {
		limit = len(board.Entries)
	}
	for _, e := range board.Entries[:limit] {
		logger.Get().Info(ctx, "leaderboard entry",
			logger.Int("rank", e.Rank),
			logger.String("kind", string(e.Kind)),
			logger.String("name", e.Name),
			logger.Float64("score", e.Score),
			logger.String("source", string(e.Source)),
			logger.Int("judgeScores", e.JudgeScores))
	}
}
