package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/pkg/metrics"
)

// Instrumented records latency and failures of every call to the wrapped
// store. Not-found and conflict results are not counted as failures.
type Instrumented struct {
	next Store
}

// Instrument wraps s with store metrics.
func Instrument(s Store) *Instrumented {
	return &Instrumented{next: s}
}

func observe(op string, start time.Time, err error) {
	if isExpected(err) {
		err = nil
	}
	metrics.RecordStoreOperation(op, time.Since(start), err)
}

func isExpected(err error) bool {
	return err != nil && (errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrValidation))
}

func (i *Instrumented) CreateEvent(ctx context.Context, e *model.Event) error {
	start := time.Now()
	err := i.next.CreateEvent(ctx, e)
	observe("create_event", start, err)
	return err
}

func (i *Instrumented) GetEvent(ctx context.Context, id string) (model.Event, error) {
	start := time.Now()
	e, err := i.next.GetEvent(ctx, id)
	observe("get_event", start, err)
	return e, err
}

func (i *Instrumented) ListEvents(ctx context.Context) ([]model.Event, error) {
	start := time.Now()
	out, err := i.next.ListEvents(ctx)
	observe("list_events", start, err)
	return out, err
}

func (i *Instrumented) ListEventsByCreator(ctx context.Context, createdBy string) ([]model.Event, error) {
	start := time.Now()
	out, err := i.next.ListEventsByCreator(ctx, createdBy)
	observe("list_events_by_creator", start, err)
	return out, err
}

func (i *Instrumented) SetEventActive(ctx context.Context, id string, active bool) (model.Event, error) {
	start := time.Now()
	e, err := i.next.SetEventActive(ctx, id, active)
	observe("set_event_active", start, err)
	return e, err
}

func (i *Instrumented) DeleteEvent(ctx context.Context, id string) error {
	start := time.Now()
	err := i.next.DeleteEvent(ctx, id)
	observe("delete_event", start, err)
	return err
}

func (i *Instrumented) CreateTimeline(ctx context.Context, t *model.Timeline) error {
	start := time.Now()
	err := i.next.CreateTimeline(ctx, t)
	observe("create_timeline", start, err)
	return err
}

func (i *Instrumented) ListTimeline(ctx context.Context, eventID string) ([]model.Timeline, error) {
	start := time.Now()
	out, err := i.next.ListTimeline(ctx, eventID)
	observe("list_timeline", start, err)
	return out, err
}

func (i *Instrumented) UpdateTimelineStatus(ctx context.Context, id string, status model.MilestoneStatus) (model.Timeline, error) {
	start := time.Now()
	t, err := i.next.UpdateTimelineStatus(ctx, id, status)
	observe("update_timeline_status", start, err)
	return t, err
}

func (i *Instrumented) CreateTeam(ctx context.Context, t *model.Team) error {
	start := time.Now()
	err := i.next.CreateTeam(ctx, t)
	observe("create_team", start, err)
	return err
}

func (i *Instrumented) GetTeam(ctx context.Context, id string) (model.Team, error) {
	start := time.Now()
	t, err := i.next.GetTeam(ctx, id)
	observe("get_team", start, err)
	return t, err
}

func (i *Instrumented) ListTeams(ctx context.Context, eventID string) ([]model.Team, error) {
	start := time.Now()
	out, err := i.next.ListTeams(ctx, eventID)
	observe("list_teams", start, err)
	return out, err
}

func (i *Instrumented) ListTeamsByMember(ctx context.Context, member string) ([]model.Team, error) {
	start := time.Now()
	out, err := i.next.ListTeamsByMember(ctx, member)
	observe("list_teams_by_member", start, err)
	return out, err
}

func (i *Instrumented) AddTeamMember(ctx context.Context, teamID, member string) (model.Team, error) {
	start := time.Now()
	t, err := i.next.AddTeamMember(ctx, teamID, member)
	observe("add_team_member", start, err)
	return t, err
}

func (i *Instrumented) RemoveTeamMember(ctx context.Context, teamID, member string) (model.Team, error) {
	start := time.Now()
	t, err := i.next.RemoveTeamMember(ctx, teamID, member)
	observe("remove_team_member", start, err)
	return t, err
}

func (i *Instrumented) CreateSubmission(ctx context.Context, s *model.Submission) error {
	start := time.Now()
	err := i.next.CreateSubmission(ctx, s)
	observe("create_submission", start, err)
	return err
}

func (i *Instrumented) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	start := time.Now()
	s, err := i.next.GetSubmission(ctx, id)
	observe("get_submission", start, err)
	return s, err
}

func (i *Instrumented) ListSubmissions(ctx context.Context, eventID string) ([]model.Submission, error) {
	start := time.Now()
	out, err := i.next.ListSubmissions(ctx, eventID)
	observe("list_submissions", start, err)
	return out, err
}

func (i *Instrumented) UpsertScore(ctx context.Context, sc *model.Score, opts UpsertOptions) (bool, error) {
	start := time.Now()
	replaced, err := i.next.UpsertScore(ctx, sc, opts)
	observe("upsert_score", start, err)
	return replaced, err
}

func (i *Instrumented) ListScores(ctx context.Context, submissionID string) ([]model.Score, error) {
	start := time.Now()
	out, err := i.next.ListScores(ctx, submissionID)
	observe("list_scores", start, err)
	return out, err
}

func (i *Instrumented) ListEventScores(ctx context.Context, eventID string) ([]model.Score, error) {
	start := time.Now()
	out, err := i.next.ListEventScores(ctx, eventID)
	observe("list_event_scores", start, err)
	return out, err
}

func (i *Instrumented) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	start := time.Now()
	err := i.next.CreateAnnouncement(ctx, a)
	observe("create_announcement", start, err)
	return err
}

func (i *Instrumented) ListAnnouncements(ctx context.Context, eventID string) ([]model.Announcement, error) {
	start := time.Now()
	out, err := i.next.ListAnnouncements(ctx, eventID)
	observe("list_announcements", start, err)
	return out, err
}

func (i *Instrumented) Counts(ctx context.Context) (Counts, error) {
	start := time.Now()
	c, err := i.next.Counts(ctx)
	observe("counts", start, err)
	return c, err
}

func (i *Instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *Instrumented) Close() error {
	return i.next.Close()
}
