// Package postgres implements the hacksphere store on PostgreSQL with bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/adapters/repository/postgres/migrations"
	"github.com/okian/hacksphere/internal/domain/model"
)

// PostgreSQL error classes the store maps to domain kinds.
const (
	codeForeignKey = "23503"
	codeUnique     = "23505"
	codeCheck      = "23514"
)

// Store is a repository.Store backed by PostgreSQL. Per-slot scorecard
// atomicity comes from the unique (submission_id, judge_id, round) index.
type Store struct {
	db *bun.DB
}

var _ repository.Store = (*Store)(nil)

// Option configures the connection pool opened by Open.
type Option func(*sql.DB)

// WithMaxOpenConns caps open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *sql.DB) {
		if n > 0 {
			db.SetMaxOpenConns(n)
		}
	}
}

// WithMaxIdleConns caps idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *sql.DB) {
		if n > 0 {
			db.SetMaxIdleConns(n)
		}
	}
}

// WithConnMaxLifetime recycles connections older than d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *sql.DB) {
		if d > 0 {
			db.SetConnMaxLifetime(d)
		}
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	for _, opt := range opts {
		opt(sqldb)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.Open: %w: %w", model.ErrStorage, err)
	}
	return New(db), nil
}

// New wraps an open bun database.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Migrate applies pending schema migrations and returns their names.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	migrator := migrate.NewMigrator(s.db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	names := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		names = append(names, m.Name)
	}
	return names, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fail("Ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// fail maps a driver error to a domain kind.
func fail(op string, err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case codeForeignKey:
			return fmt.Errorf("postgres.%s: referenced %w", op, repository.ErrNotFound)
		case codeUnique:
			return fmt.Errorf("postgres.%s: %s: %w", op, pgErr.Field('M'), model.ErrConflict)
		case codeCheck:
			return &model.ValidationError{Message: pgErr.Field('M')}
		}
	}
	return fmt.Errorf("postgres.%s: %w: %w", op, model.ErrStorage, err)
}

func (s *Store) insert(ctx context.Context, op string, row any) error {
	if _, err := s.db.NewInsert().Model(row).Returning("created_at").Exec(ctx); err != nil {
		return fail(op, err)
	}
	return nil
}

// Events

func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	row := toEventRow(e)
	if err := s.insert(ctx, "CreateEvent", row); err != nil {
		return err
	}
	e.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (model.Event, error) {
	row := new(eventRow)
	if err := s.db.NewSelect().Model(row).Where("e.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Event{}, repository.NotFound("event", id)
		}
		return model.Event{}, fail("GetEvent", err)
	}
	return row.toModel(), nil
}

func (s *Store) listEvents(ctx context.Context, op string, where func(*bun.SelectQuery) *bun.SelectQuery) ([]model.Event, error) {
	var rows []eventRow
	q := s.db.NewSelect().Model(&rows).Order("e.created_at DESC", "e.id DESC")
	if err := where(q).Scan(ctx); err != nil {
		return nil, fail(op, err)
	}
	out := make([]model.Event, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.listEvents(ctx, "ListEvents", func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

func (s *Store) ListEventsByCreator(ctx context.Context, createdBy string) ([]model.Event, error) {
	return s.listEvents(ctx, "ListEventsByCreator", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("e.created_by = ?", createdBy)
	})
}

func (s *Store) SetEventActive(ctx context.Context, id string, active bool) (model.Event, error) {
	row := new(eventRow)
	err := s.db.NewUpdate().Model(row).
		Set("is_active = ?", active).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Event{}, repository.NotFound("event", id)
		}
		return model.Event{}, fail("SetEventActive", err)
	}
	return row.toModel(), nil
}

// DeleteEvent removes the event; foreign keys cascade to everything it owns.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*eventRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fail("DeleteEvent", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NotFound("event", id)
	}
	return nil
}

// Timeline

func (s *Store) CreateTimeline(ctx context.Context, t *model.Timeline) error {
	row := toTimelineRow(t)
	if err := s.insert(ctx, "CreateTimeline", row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.NotFound("event", t.EventID)
		}
		return err
	}
	t.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) ListTimeline(ctx context.Context, eventID string) ([]model.Timeline, error) {
	var rows []timelineRow
	err := s.db.NewSelect().Model(&rows).
		Where("tl.event_id = ?", eventID).
		Order("tl.sort_order ASC", "tl.created_at ASC", "tl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fail("ListTimeline", err)
	}
	out := make([]model.Timeline, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *Store) UpdateTimelineStatus(ctx context.Context, id string, status model.MilestoneStatus) (model.Timeline, error) {
	row := new(timelineRow)
	err := s.db.NewUpdate().Model(row).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Timeline{}, repository.NotFound("timeline", id)
		}
		return model.Timeline{}, fail("UpdateTimelineStatus", err)
	}
	return row.toModel(), nil
}

// Teams

func (s *Store) CreateTeam(ctx context.Context, t *model.Team) error {
	row := toTeamRow(t)
	if err := s.insert(ctx, "CreateTeam", row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.NotFound("event", t.EventID)
		}
		return err
	}
	t.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (model.Team, error) {
	row := new(teamRow)
	if err := s.db.NewSelect().Model(row).Where("t.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Team{}, repository.NotFound("team", id)
		}
		return model.Team{}, fail("GetTeam", err)
	}
	return row.toModel(), nil
}

func (s *Store) listTeams(ctx context.Context, op, where string, arg any) ([]model.Team, error) {
	var rows []teamRow
	err := s.db.NewSelect().Model(&rows).
		Where(where, arg).
		Order("t.created_at ASC", "t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fail(op, err)
	}
	out := make([]model.Team, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *Store) ListTeams(ctx context.Context, eventID string) ([]model.Team, error) {
	return s.listTeams(ctx, "ListTeams", "t.event_id = ?", eventID)
}

func (s *Store) ListTeamsByMember(ctx context.Context, member string) ([]model.Team, error) {
	return s.listTeams(ctx, "ListTeamsByMember", "? = ANY(t.members)", member)
}

// updateMembers locks the team row and applies change to its member list.
func (s *Store) updateMembers(ctx context.Context, op, teamID string, change func(*model.Team) error) (model.Team, error) {
	var out model.Team
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(teamRow)
		if err := tx.NewSelect().Model(row).Where("t.id = ?", teamID).For("UPDATE").Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.NotFound("team", teamID)
			}
			return fail(op, err)
		}
		t := row.toModel()
		if err := change(&t); err != nil {
			return err
		}
		row.Members = nonNil(t.Members)
		if _, err := tx.NewUpdate().Model(row).Column("members").WherePK().Exec(ctx); err != nil {
			return fail(op, err)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *Store) AddTeamMember(ctx context.Context, teamID, member string) (model.Team, error) {
	return s.updateMembers(ctx, "AddTeamMember", teamID, func(t *model.Team) error {
		if t.HasMember(member) {
			return repository.ErrDuplicateMember
		}
		if t.Full() {
			return repository.ErrTeamFull
		}
		t.Members = append(t.Members, member)
		return nil
	})
}

func (s *Store) RemoveTeamMember(ctx context.Context, teamID, member string) (model.Team, error) {
	return s.updateMembers(ctx, "RemoveTeamMember", teamID, func(t *model.Team) error {
		if member == t.LeaderID {
			return repository.ErrLeaderRemoval
		}
		if !t.HasMember(member) {
			return repository.ErrNotMember
		}
		t.Members = slices.DeleteFunc(t.Members, func(m string) bool { return m == member })
		return nil
	})
}

// Submissions

func (s *Store) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	row := toSubmissionRow(sub)
	if err := s.insert(ctx, "CreateSubmission", row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.NotFound("event", sub.EventID)
		}
		return err
	}
	sub.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	row := new(submissionRow)
	if err := s.db.NewSelect().Model(row).Where("s.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Submission{}, repository.NotFound("submission", id)
		}
		return model.Submission{}, fail("GetSubmission", err)
	}
	return row.toModel(), nil
}

func (s *Store) ListSubmissions(ctx context.Context, eventID string) ([]model.Submission, error) {
	var rows []submissionRow
	err := s.db.NewSelect().Model(&rows).
		Where("s.event_id = ?", eventID).
		Order("s.created_at ASC", "s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fail("ListSubmissions", err)
	}
	out := make([]model.Submission, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

// Scores

// UpsertScore writes the scorecard in one statement. xmax is non-zero on a
// row produced by the DO UPDATE branch, which reports the replacement.
func (s *Store) UpsertScore(ctx context.Context, sc *model.Score, opts repository.UpsertOptions) (bool, error) {
	row := toScoreRow(sc)
	if opts.RequireExisting {
		err := s.db.NewUpdate().Model(row).
			Column("innovation", "technical", "design", "impact", "total", "feedback", "updated_at").
			Where("submission_id = ? AND judge_id = ? AND round = ?", sc.SubmissionID, sc.JudgeID, sc.Round).
			Returning("id, created_at").
			Scan(ctx, &sc.ID, &sc.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, repository.NotFound("score", sc.SubmissionID+"/"+sc.JudgeID)
			}
			return false, fail("UpsertScore", err)
		}
		return true, nil
	}

	var replaced bool
	err := s.db.NewInsert().Model(row).
		On("CONFLICT (submission_id, judge_id, round) DO UPDATE").
		Set("innovation = EXCLUDED.innovation").
		Set("technical = EXCLUDED.technical").
		Set("design = EXCLUDED.design").
		Set("impact = EXCLUDED.impact").
		Set("total = EXCLUDED.total").
		Set("feedback = EXCLUDED.feedback").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id, created_at, (xmax <> 0)").
		Scan(ctx, &sc.ID, &sc.CreatedAt, &replaced)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, repository.NotFound("submission", sc.SubmissionID)
		}
		return false, fail("UpsertScore", err)
	}
	return replaced, nil
}

func (s *Store) listScores(ctx context.Context, op, where, arg string) ([]model.Score, error) {
	var rows []scoreRow
	err := s.db.NewSelect().Model(&rows).
		Where(where, arg).
		Order("sc.round ASC", "sc.created_at ASC", "sc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fail(op, err)
	}
	out := make([]model.Score, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *Store) ListScores(ctx context.Context, submissionID string) ([]model.Score, error) {
	return s.listScores(ctx, "ListScores", "sc.submission_id = ?", submissionID)
}

func (s *Store) ListEventScores(ctx context.Context, eventID string) ([]model.Score, error) {
	return s.listScores(ctx, "ListEventScores", "sc.event_id = ?", eventID)
}

// Announcements

func (s *Store) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	row := toAnnouncementRow(a)
	if err := s.insert(ctx, "CreateAnnouncement", row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.NotFound("event", a.EventID)
		}
		return err
	}
	a.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) ListAnnouncements(ctx context.Context, eventID string) ([]model.Announcement, error) {
	var rows []announcementRow
	err := s.db.NewSelect().Model(&rows).
		Where("a.event_id = ?", eventID).
		Order("a.created_at DESC", "a.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fail("ListAnnouncements", err)
	}
	out := make([]model.Announcement, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (s *Store) Counts(ctx context.Context) (repository.Counts, error) {
	var c repository.Counts
	err := s.db.NewRaw(`SELECT
		(SELECT count(*) FROM events),
		(SELECT count(*) FROM teams),
		(SELECT count(*) FROM submissions),
		(SELECT count(*) FROM scores),
		(SELECT count(*) FROM announcements)`).
		Scan(ctx, &c.Events, &c.Teams, &c.Submissions, &c.Scores, &c.Announcements)
	if err != nil {
		return repository.Counts{}, fail("Counts", err)
	}
	return c, nil
}
