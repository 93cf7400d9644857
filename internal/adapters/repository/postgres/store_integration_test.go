//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/domain/model"
)

func startStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("hacksphere"),
		tcpostgres.WithUsername("hacksphere"),
		tcpostgres.WithPassword("hacksphere"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	store, err := Open(ctx, dsn, WithMaxOpenConns(8))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func newEvent(ctx context.Context, s *Store) model.Event {
	e := model.Event{ID: uuid.NewString(), Title: "Hack", Mode: model.ModeOnline, CreatedBy: "org", IsActive: true}
	So(s.CreateEvent(ctx, &e), ShouldBeNil)
	return e
}

func newSubmission(ctx context.Context, s *Store, eventID string) model.Submission {
	sub := model.Submission{ID: uuid.NewString(), EventID: eventID, Title: "T", Description: "D", Tags: []string{"ai"}, HeuristicScore: 40}
	So(s.CreateSubmission(ctx, &sub), ShouldBeNil)
	return sub
}

func TestStoreIntegration(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	Convey("Given a migrated PostgreSQL store", t, func() {
		Convey("Migrate is idempotent", func() {
			names, err := store.Migrate(ctx)
			So(err, ShouldBeNil)
			So(names, ShouldBeEmpty)
		})

		Convey("Events round-trip and unknown ids are not found", func() {
			e := newEvent(ctx, store)
			got, err := store.GetEvent(ctx, e.ID)
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, "Hack")
			So(got.Tracks, ShouldResemble, []string{})
			So(got.CreatedAt.IsZero(), ShouldBeFalse)

			_, err = store.GetEvent(ctx, "missing")
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)

			updated, err := store.SetEventActive(ctx, e.ID, false)
			So(err, ShouldBeNil)
			So(updated.IsActive, ShouldBeFalse)
		})

		Convey("Creating children of a missing event is not found", func() {
			err := store.CreateTeam(ctx, &model.Team{ID: uuid.NewString(), EventID: "nope", Name: "x", LeaderID: "a", Members: []string{"a"}, MaxMembers: 4})
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})

		Convey("Team membership changes enforce the rules", func() {
			e := newEvent(ctx, store)
			team := model.Team{ID: uuid.NewString(), EventID: e.ID, Name: "A", LeaderID: "lead", Members: []string{"lead"}, MaxMembers: 2}
			So(store.CreateTeam(ctx, &team), ShouldBeNil)

			got, err := store.AddTeamMember(ctx, team.ID, "bob")
			So(err, ShouldBeNil)
			So(got.Members, ShouldResemble, []string{"lead", "bob"})

			_, err = store.AddTeamMember(ctx, team.ID, "carol")
			So(errors.Is(err, repository.ErrTeamFull), ShouldBeTrue)
			_, err = store.AddTeamMember(ctx, team.ID, "bob")
			So(errors.Is(err, repository.ErrDuplicateMember), ShouldBeTrue)
			_, err = store.RemoveTeamMember(ctx, team.ID, "lead")
			So(errors.Is(err, repository.ErrLeaderRemoval), ShouldBeTrue)

			byMember, err := store.ListTeamsByMember(ctx, "bob")
			So(err, ShouldBeNil)
			So(byMember, ShouldHaveLength, 1)
		})

		Convey("Scorecards keep one live row per slot", func() {
			e := newEvent(ctx, store)
			sub := newSubmission(ctx, store, e.ID)
			now := time.Now().UTC().Truncate(time.Microsecond)

			first := model.Score{ID: uuid.NewString(), SubmissionID: sub.ID, EventID: e.ID, JudgeID: "j1", Round: 1,
				SubScores: model.SubScores{Innovation: 8, Technical: 7, Design: 6, Impact: 9}, CreatedAt: now, UpdatedAt: now}
			first.Recompute()
			replaced, err := store.UpsertScore(ctx, &first, repository.UpsertOptions{})
			So(err, ShouldBeNil)
			So(replaced, ShouldBeFalse)

			second := model.Score{ID: uuid.NewString(), SubmissionID: sub.ID, EventID: e.ID, JudgeID: "j1", Round: 1,
				SubScores: model.SubScores{Innovation: 1, Technical: 1, Design: 1, Impact: 1}, UpdatedAt: now.Add(time.Second)}
			second.Recompute()
			replaced, err = store.UpsertScore(ctx, &second, repository.UpsertOptions{})
			So(err, ShouldBeNil)
			So(replaced, ShouldBeTrue)
			So(second.ID, ShouldEqual, first.ID)

			scores, err := store.ListScores(ctx, sub.ID)
			So(err, ShouldBeNil)
			So(scores, ShouldHaveLength, 1)
			So(scores[0].Total, ShouldEqual, 4)

			missing := model.Score{SubmissionID: sub.ID, EventID: e.ID, JudgeID: "j2", Round: 1}
			_, err = store.UpsertScore(ctx, &missing, repository.UpsertOptions{RequireExisting: true})
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})

		Convey("Concurrent writes to one slot leave a single row", func() {
			e := newEvent(ctx, store)
			sub := newSubmission(ctx, store, e.ID)
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					sc := model.Score{ID: uuid.NewString(), SubmissionID: sub.ID, EventID: e.ID, JudgeID: "j", Round: 1,
						SubScores: model.SubScores{Innovation: n}, UpdatedAt: time.Now()}
					sc.Recompute()
					_, _ = store.UpsertScore(ctx, &sc, repository.UpsertOptions{})
				}(i + 1)
			}
			wg.Wait()
			scores, err := store.ListEventScores(ctx, e.ID)
			So(err, ShouldBeNil)
			So(scores, ShouldHaveLength, 1)
		})

		Convey("Deleting an event cascades", func() {
			e := newEvent(ctx, store)
			sub := newSubmission(ctx, store, e.ID)
			So(store.CreateAnnouncement(ctx, &model.Announcement{ID: uuid.NewString(), EventID: e.ID, Message: "hi"}), ShouldBeNil)

			So(store.DeleteEvent(ctx, e.ID), ShouldBeNil)
			_, err := store.GetSubmission(ctx, sub.ID)
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			anns, err := store.ListAnnouncements(ctx, e.ID)
			So(err, ShouldBeNil)
			So(anns, ShouldBeEmpty)
			So(errors.Is(store.DeleteEvent(ctx, e.ID), model.ErrNotFound), ShouldBeTrue)
		})

		Convey("Counts reflect stored rows", func() {
			c, err := store.Counts(ctx)
			So(err, ShouldBeNil)
			So(c.Events, ShouldBeGreaterThan, 0)
			So(store.Ping(ctx), ShouldBeNil)
		})
	})
}
