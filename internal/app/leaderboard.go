package service

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/hacksphere/internal/adapters/cache"
	"github.com/okian/hacksphere/internal/adapters/report"
	"github.com/okian/hacksphere/internal/domain/leaderboard"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
	"github.com/okian/hacksphere/pkg/logger"
	"github.com/okian/hacksphere/pkg/metrics"
)

// Cache outcomes of a leaderboard read.
const (
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheBypass = "bypass"
)

// GetLeaderboard ranks an event. Round 0 pools every round; a positive
// round counts only that round's scorecards.
func (s *Service) GetLeaderboard(ctx context.Context, eventID string, round int) (_ []types.Entry, err error) {
	ctx, span := s.span(ctx, "GetLeaderboard", attribute.String("event.id", eventID), attribute.Int("round", round))
	defer func() { end(span, err) }()

	if round < 0 {
		return nil, model.Invalid("round", "must not be negative, got %d", round)
	}
	entries, outcome, err := s.cachedBoard(ctx, eventID, round)
	if err != nil {
		return nil, err
	}
	metrics.RecordLeaderboardRead(outcome)
	span.SetAttributes(attribute.String("cache", outcome), attribute.Int("entries", len(entries)))
	return entries, nil
}

// cachedBoard serves the board from the cache or computes and stores it
// under the version read before computing.
func (s *Service) cachedBoard(ctx context.Context, eventID string, round int) ([]types.Entry, string, error) {
	if _, ok := s.cache.(cache.Nop); ok {
		entries, err := s.compute(ctx, eventID, round)
		return entries, cacheBypass, err
	}

	version, err := s.cache.Version(ctx, eventID)
	if err != nil {
		s.cacheFailed(ctx, "version", eventID, err)
		entries, err := s.compute(ctx, eventID, round)
		return entries, cacheBypass, err
	}
	entries, ok, err := s.cache.Get(ctx, eventID, version, round)
	if err != nil {
		s.cacheFailed(ctx, "get", eventID, err)
	} else if ok {
		return entries, cacheHit, nil
	}

	entries, err = s.compute(ctx, eventID, round)
	if err != nil {
		return nil, "", err
	}
	if err := s.cache.Put(ctx, eventID, version, round, entries); err != nil {
		s.cacheFailed(ctx, "put", eventID, err)
	}
	return entries, cacheMiss, nil
}

func (s *Service) cacheFailed(ctx context.Context, op, eventID string, err error) {
	metrics.RecordCacheError(op)
	s.logger.Warn(ctx, "leaderboard cache failed",
		logger.String("op", op),
		logger.String("event_id", eventID),
		logger.Error(err),
	)
}

func (s *Service) compute(ctx context.Context, eventID string, round int) ([]types.Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordLeaderboardLatency(time.Since(start)) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return nil, err
	}
	scores, err := s.store.ListEventScores(ctx, eventID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.ListTeams(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return leaderboard.Build(leaderboard.Input{
		Submissions: subs,
		Scores:      scores,
		Teams:       teams,
		Round:       round,
	}), nil
}

// GetEventAnalytics returns an event's headline counts. Participants are
// the distinct identities among team members and submitters.
func (s *Service) GetEventAnalytics(ctx context.Context, eventID string) (_ types.Analytics, err error) {
	ctx, span := s.span(ctx, "GetEventAnalytics", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return types.Analytics{}, err
	}
	teams, err := s.store.ListTeams(ctx, eventID)
	if err != nil {
		return types.Analytics{}, err
	}
	subs, err := s.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return types.Analytics{}, err
	}
	scores, err := s.store.ListEventScores(ctx, eventID)
	if err != nil {
		return types.Analytics{}, err
	}
	milestones, err := s.store.ListTimeline(ctx, eventID)
	if err != nil {
		return types.Analytics{}, err
	}

	people := make(map[string]struct{})
	for _, t := range teams {
		for _, m := range t.Members {
			people[m] = struct{}{}
		}
	}
	for _, sub := range subs {
		if sub.SubmittedBy != "" {
			people[sub.SubmittedBy] = struct{}{}
		}
	}
	scored := make(map[string]struct{})
	for _, sc := range scores {
		scored[sc.SubmissionID] = struct{}{}
	}
	completed := 0
	for _, m := range milestones {
		if m.Status == model.MilestoneCompleted {
			completed++
		}
	}
	percent := 0
	if len(milestones) > 0 {
		percent = int(math.Round(100 * float64(completed) / float64(len(milestones))))
	}

	return types.Analytics{
		EventID:             eventID,
		Participants:        len(people),
		Teams:               len(teams),
		Submissions:         len(subs),
		ScoredSubmissions:   len(scored),
		JudgeScores:         len(scores),
		Milestones:          len(milestones),
		CompletedMilestones: completed,
		CompletionPercent:   percent,
	}, nil
}

// BuildReport renders the organizer's XLSX report of an event.
func (s *Service) BuildReport(ctx context.Context, eventID string) (_ []byte, err error) {
	ctx, span := s.span(ctx, "BuildReport", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	board, _, err := s.cachedBoard(ctx, eventID, leaderboard.AllRounds)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return nil, err
	}
	analytics, err := s.GetEventAnalytics(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return report.Build(report.Input{
		Event:       event,
		Leaderboard: board,
		Submissions: subs,
		Analytics:   analytics,
		GeneratedAt: s.now(),
	})
}
