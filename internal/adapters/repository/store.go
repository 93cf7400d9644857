// Package repository defines the storage contract of hacksphere and its
// in-memory implementation.
package repository

import (
	"context"

	"github.com/okian/hacksphere/internal/domain/model"
)

// EventStore persists events. Deleting an event removes everything it owns.
type EventStore interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id string) (model.Event, error)
	// ListEvents returns every event, newest first.
	ListEvents(ctx context.Context) ([]model.Event, error)
	// ListEventsByCreator returns the events created by an organizer, newest first.
	ListEventsByCreator(ctx context.Context, createdBy string) ([]model.Event, error)
	SetEventActive(ctx context.Context, id string, active bool) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// TimelineStore persists event milestones.
type TimelineStore interface {
	CreateTimeline(ctx context.Context, t *model.Timeline) error
	// ListTimeline returns an event's milestones by ascending order.
	ListTimeline(ctx context.Context, eventID string) ([]model.Timeline, error)
	UpdateTimelineStatus(ctx context.Context, id string, status model.MilestoneStatus) (model.Timeline, error)
}

// TeamStore persists teams. Member changes are atomic per team.
type TeamStore interface {
	CreateTeam(ctx context.Context, t *model.Team) error
	GetTeam(ctx context.Context, id string) (model.Team, error)
	// ListTeams returns an event's teams in creation order.
	ListTeams(ctx context.Context, eventID string) ([]model.Team, error)
	ListTeamsByMember(ctx context.Context, member string) ([]model.Team, error)
	// AddTeamMember fails with ErrDuplicateMember or ErrTeamFull.
	AddTeamMember(ctx context.Context, teamID, member string) (model.Team, error)
	// RemoveTeamMember fails with ErrNotMember or ErrLeaderRemoval.
	RemoveTeamMember(ctx context.Context, teamID, member string) (model.Team, error)
}

// SubmissionStore persists submissions. There is no update operation: a
// submission's heuristic score is fixed at creation.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	// ListSubmissions returns an event's submissions in creation order.
	ListSubmissions(ctx context.Context, eventID string) ([]model.Submission, error)
}

// UpsertOptions tune UpsertScore.
type UpsertOptions struct {
	// RequireExisting only replaces a live scorecard and fails with
	// ErrNotFound when the slot is empty.
	RequireExisting bool
}

// ScoreStore persists judge scorecards, one live row per
// (submission, judge, round).
type ScoreStore interface {
	// UpsertScore writes sc into its slot atomically. A new row keeps the ID
	// and CreatedAt of sc; a replaced row keeps its stored ID and CreatedAt,
	// which are copied back into sc. It reports whether a row was replaced.
	UpsertScore(ctx context.Context, sc *model.Score, opts UpsertOptions) (bool, error)
	// ListScores returns a submission's scorecards by round, then creation.
	ListScores(ctx context.Context, submissionID string) ([]model.Score, error)
	// ListEventScores returns every scorecard of an event's submissions.
	ListEventScores(ctx context.Context, eventID string) ([]model.Score, error)
}

// AnnouncementStore persists announcements.
type AnnouncementStore interface {
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	// ListAnnouncements returns an event's announcements, newest first.
	ListAnnouncements(ctx context.Context, eventID string) ([]model.Announcement, error)
}

// Counts are store-wide row counts.
type Counts struct {
	Events        int `json:"events"`
	Teams         int `json:"teams"`
	Submissions   int `json:"submissions"`
	Scores        int `json:"scores"`
	Announcements int `json:"announcements"`
}

// Store provides read/write access to all hacksphere state.
type Store interface {
	EventStore
	TimelineStore
	TeamStore
	SubmissionStore
	ScoreStore
	AnnouncementStore

	Counts(ctx context.Context) (Counts, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*MemStore)(nil)
	_ Store = (*Instrumented)(nil)
)
