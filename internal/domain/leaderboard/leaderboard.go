// Package leaderboard ranks an event's teams and solo submissions from judge
// scorecards, falling back to the heuristic score until judging starts.
package leaderboard

import (
	"math"
	"slices"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
)

// AllRounds pools scorecards of every round.
const AllRounds = 0

// Input is the state of one event the ranking is computed from.
type Input struct {
	// Submissions in creation order; ties keep this order.
	Submissions []model.Submission
	Scores      []model.Score
	Teams       []model.Team
	// Round restricts the scorecards counted; AllRounds pools them.
	Round int
}

type group struct {
	kind        types.EntryKind
	id          string
	name        string
	totalSum    int
	totalCount  int
	heuristic   int
	submissions int
	score       float64
}

func (g *group) finish() {
	if g.totalCount > 0 {
		g.score = float64(g.totalSum) / float64(g.totalCount)
		return
	}
	g.score = float64(g.heuristic) / float64(g.submissions)
}

// Build ranks the event. A submission's score is the mean total of its
// scorecards, or its heuristic score when it has none. Submissions of the
// same team are pooled: the team scores the mean of every scorecard of its
// submissions, or the mean heuristic when none is judged. Submissions
// without a team of the event rank on their own under their title.
//
// Entries are ordered by descending score at full precision; equal scores
// share a dense rank and keep first-seen order. The returned slice is never nil.
func Build(in Input) []types.Entry {
	teams := make(map[string]*model.Team, len(in.Teams))
	for i := range in.Teams {
		teams[in.Teams[i].ID] = &in.Teams[i]
	}

	known := make(map[string]struct{}, len(in.Submissions))
	for _, s := range in.Submissions {
		known[s.ID] = struct{}{}
	}
	type tally struct{ sum, count int }
	bySubmission := make(map[string]tally, len(in.Submissions))
	for _, sc := range in.Scores {
		if in.Round > AllRounds && sc.Round != in.Round {
			continue
		}
		if _, ok := known[sc.SubmissionID]; !ok {
			continue
		}
		t := bySubmission[sc.SubmissionID]
		t.sum += sc.Total
		t.count++
		bySubmission[sc.SubmissionID] = t
	}

	groups := make([]*group, 0, len(in.Submissions))
	byKey := make(map[string]*group, len(in.Submissions))
	for _, s := range in.Submissions {
		key, g := "s:"+s.ID, &group{kind: types.KindSubmission, id: s.ID, name: s.Title}
		if team, ok := teams[s.TeamID]; ok && s.TeamID != "" && team.EventID == s.EventID {
			key, g = "t:"+team.ID, &group{kind: types.KindTeam, id: team.ID, name: team.Name}
		}
		if existing, ok := byKey[key]; ok {
			g = existing
		} else {
			byKey[key] = g
			groups = append(groups, g)
		}
		t := bySubmission[s.ID]
		g.totalSum += t.sum
		g.totalCount += t.count
		g.heuristic += s.HeuristicScore
		g.submissions++
	}

	for _, g := range groups {
		g.finish()
	}
	slices.SortStableFunc(groups, func(a, b *group) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	entries := make([]types.Entry, 0, len(groups))
	rank := 0
	for i, g := range groups {
		if i == 0 || g.score != groups[i-1].score {
			rank++
		}
		source := types.SourceHeuristic
		if g.totalCount > 0 {
			source = types.SourceJudges
		}
		entries = append(entries, types.Entry{
			Rank:            rank,
			Kind:            g.kind,
			ID:              g.id,
			Name:            g.name,
			Score:           RoundScore(g.score),
			Source:          source,
			JudgeScores:     g.totalCount,
			SubmissionCount: g.submissions,
		})
	}
	return entries
}

// RoundScore rounds a displayed score to one decimal place.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
