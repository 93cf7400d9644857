package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/pkg/logger"
	"github.com/okian/hacksphere/pkg/metrics"
)

func scoringInput(sub *model.Submission) scoring.Input {
	return scoring.Input{
		Title:       sub.Title,
		Description: sub.Description,
		Tags:        sub.Tags,
		RepoURL:     sub.RepoURL,
		VideoURL:    sub.VideoURL,
	}
}

// CreateSubmission validates a submission, computes its heuristic score once
// and stores it.
func (s *Service) CreateSubmission(ctx context.Context, sub model.Submission) (_ model.Submission, err error) {
	ctx, span := s.span(ctx, "CreateSubmission", attribute.String("event.id", sub.EventID))
	defer func() { end(span, err) }()

	if err := sub.Validate(); err != nil {
		return model.Submission{}, err
	}
	if _, err := s.store.GetEvent(ctx, sub.EventID); err != nil {
		return model.Submission{}, err
	}
	if sub.TeamID = strings.TrimSpace(sub.TeamID); sub.TeamID != "" {
		team, err := s.store.GetTeam(ctx, sub.TeamID)
		if errors.Is(err, model.ErrNotFound) || (err == nil && team.EventID != sub.EventID) {
			return model.Submission{}, model.Invalid("team_id", "team %q is not part of the event", sub.TeamID)
		}
		if err != nil {
			return model.Submission{}, err
		}
	}

	sub.ID = s.newID()
	sub.HeuristicScore = s.scorer.Score(scoringInput(&sub))
	sub.CreatedAt = s.now()
	if err := s.store.CreateSubmission(ctx, &sub); err != nil {
		return model.Submission{}, err
	}
	metrics.RecordSubmissionCreated(sub.HeuristicScore)
	span.SetAttributes(attribute.Int("submission.heuristic", sub.HeuristicScore))
	s.invalidate(ctx, sub.EventID)
	return sub, nil
}

// GetSubmission returns a submission.
func (s *Service) GetSubmission(ctx context.Context, id string) (_ model.Submission, err error) {
	ctx, span := s.span(ctx, "GetSubmission", attribute.String("submission.id", id))
	defer func() { end(span, err) }()
	return s.store.GetSubmission(ctx, id)
}

// Explain shows which rubric keywords a submission matched.
func (s *Service) Explain(sub model.Submission) scoring.Breakdown {
	return s.scorer.Explain(scoringInput(&sub))
}

// ListSubmissions returns an event's submissions, newest first.
func (s *Service) ListSubmissions(ctx context.Context, eventID string) (_ []model.Submission, err error) {
	ctx, span := s.span(ctx, "ListSubmissions", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(subs)
	return subs, nil
}

// ScoreInput is a judge's scorecard for a submission. A zero Round means
// the first round.
type ScoreInput struct {
	SubmissionID string
	JudgeID      string
	Round        int
	model.SubScores
	Feedback string
}

// ScoreResult is the stored scorecard and whether it replaced an earlier one.
type ScoreResult struct {
	Score    model.Score
	Replaced bool
}

// SubmitScore records a judge's scorecard. The total is always the sum of
// the categories. A judge scoring the same submission and round again
// replaces the earlier scorecard; an all-zero scorecard is only accepted as
// such a replacement.
func (s *Service) SubmitScore(ctx context.Context, in ScoreInput) (_ ScoreResult, err error) {
	ctx, span := s.span(ctx, "SubmitScore",
		attribute.String("submission.id", in.SubmissionID),
		attribute.String("judge.id", in.JudgeID),
	)
	defer func() {
		if err != nil {
			metrics.RecordScoreRejected(rejectReason(err))
		}
		end(span, err)
	}()

	in.JudgeID = strings.TrimSpace(in.JudgeID)
	if in.JudgeID == "" {
		return ScoreResult{}, model.Invalid("judge_id", "must not be blank")
	}
	if in.Round == 0 {
		in.Round = model.DefaultRound
	}
	if in.Round < 1 {
		return ScoreResult{}, model.Invalid("round", "must be at least 1, got %d", in.Round)
	}
	if err := s.rubric.Check(in.SubScores); err != nil {
		return ScoreResult{}, err
	}

	sub, err := s.store.GetSubmission(ctx, in.SubmissionID)
	if err != nil {
		return ScoreResult{}, err
	}

	now := s.now()
	sc := model.Score{
		ID:           s.newID(),
		SubmissionID: sub.ID,
		EventID:      sub.EventID,
		JudgeID:      in.JudgeID,
		Round:        in.Round,
		SubScores:    in.SubScores,
		Feedback:     strings.TrimSpace(in.Feedback),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	sc.Recompute()

	replaced, err := s.store.UpsertScore(ctx, &sc, repository.UpsertOptions{RequireExisting: sc.Total == 0})
	if err != nil {
		if sc.Total == 0 && errors.Is(err, model.ErrNotFound) {
			return ScoreResult{}, model.Invalid("total", "no evaluation yet: every category is zero")
		}
		return ScoreResult{}, err
	}

	metrics.RecordScoreSubmitted(replaced)
	s.logger.Debug(ctx, "score recorded",
		logger.String("submission_id", sc.SubmissionID),
		logger.String("judge_id", sc.JudgeID),
		logger.Int("round", sc.Round),
		logger.Int("total", sc.Total),
		logger.Bool("replaced", replaced),
	)
	s.invalidate(ctx, sc.EventID)
	return ScoreResult{Score: sc, Replaced: replaced}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// ListScores returns a submission's scorecards by round.
func (s *Service) ListScores(ctx context.Context, submissionID string) (_ []model.Score, err error) {
	ctx, span := s.span(ctx, "ListScores", attribute.String("submission.id", submissionID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.store.ListScores(ctx, submissionID)
}
