package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func seedEvent(ctx context.Context, s repository.Store, id, creator string) model.Event {
	e := model.Event{ID: id, Title: "Event " + id, Mode: model.ModeOnline, CreatedBy: creator, IsActive: true, CreatedAt: time.Now()}
	So(s.CreateEvent(ctx, &e), ShouldBeNil)
	return e
}

func TestMemStoreEvents(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with two events", t, func() {
		s := repository.Instrument(repository.NewMemStore())
		seedEvent(ctx, s, "e1", "org-1")
		seedEvent(ctx, s, "e2", "org-2")

		Convey("ListEvents returns newest first", func() {
			events, err := s.ListEvents(ctx)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 2)
			So(events[0].ID, ShouldEqual, "e2")
		})

		Convey("ListEventsByCreator filters by organizer", func() {
			events, err := s.ListEventsByCreator(ctx, "org-1")
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 1)
			So(events[0].ID, ShouldEqual, "e1")
		})

		Convey("SetEventActive toggles the flag", func() {
			e, err := s.SetEventActive(ctx, "e1", false)
			So(err, ShouldBeNil)
			So(e.IsActive, ShouldBeFalse)
		})

		Convey("Unknown events are not found", func() {
			_, err := s.GetEvent(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.DeleteEvent(ctx, "nope"), model.ErrNotFound), ShouldBeTrue)
		})

		Convey("Returned events are copies", func() {
			e, _ := s.GetEvent(ctx, "e1")
			e.Title = "changed"
			again, _ := s.GetEvent(ctx, "e1")
			So(again.Title, ShouldEqual, "Event e1")
		})

		Convey("DeleteEvent cascades to everything the event owns", func() {
			team := model.Team{ID: "t1", EventID: "e1", Name: "T", LeaderID: "u1", Members: []string{"u1"}, MaxMembers: 4}
			So(s.CreateTeam(ctx, &team), ShouldBeNil)
			sub := model.Submission{ID: "s1", EventID: "e1", TeamID: "t1", Title: "x", Description: "y"}
			So(s.CreateSubmission(ctx, &sub), ShouldBeNil)
			sc := model.Score{ID: "sc1", SubmissionID: "s1", EventID: "e1", JudgeID: "j1", Round: 1}
			_, err := s.UpsertScore(ctx, &sc, repository.UpsertOptions{})
			So(err, ShouldBeNil)
			So(s.CreateTimeline(ctx, &model.Timeline{ID: "m1", EventID: "e1", Label: "Kickoff"}), ShouldBeNil)
			So(s.CreateAnnouncement(ctx, &model.Announcement{ID: "a1", EventID: "e1", Message: "hi"}), ShouldBeNil)

			So(s.DeleteEvent(ctx, "e1"), ShouldBeNil)

			counts, err := s.Counts(ctx)
			So(err, ShouldBeNil)
			So(counts, ShouldResemble, repository.Counts{Events: 1})
			teams, _ := s.ListTeamsByMember(ctx, "u1")
			So(teams, ShouldBeEmpty)
			timeline, _ := s.ListTimeline(ctx, "e1")
			So(timeline, ShouldBeEmpty)
		})
	})
}

func TestMemStoreTeams(t *testing.T) {
	ctx := context.Background()

	Convey("Given a team of two with room for three", t, func() {
		s := repository.NewMemStore()
		seedEvent(ctx, s, "e1", "org")
		team := model.Team{ID: "t1", EventID: "e1", Name: "T", LeaderID: "lead", Members: []string{"lead", "m1"}, MaxMembers: 3}
		So(s.CreateTeam(ctx, &team), ShouldBeNil)

		Convey("A new member joins once", func() {
			got, err := s.AddTeamMember(ctx, "t1", "m2")
			So(err, ShouldBeNil)
			So(got.Members, ShouldResemble, []string{"lead", "m1", "m2"})

			_, err = s.AddTeamMember(ctx, "t1", "m2")
			So(errors.Is(err, repository.ErrDuplicateMember), ShouldBeTrue)
		})

		Convey("A full team refuses members", func() {
			_, _ = s.AddTeamMember(ctx, "t1", "m2")
			_, err := s.AddTeamMember(ctx, "t1", "m3")
			So(errors.Is(err, repository.ErrTeamFull), ShouldBeTrue)
			So(errors.Is(err, model.ErrConflict), ShouldBeTrue)
		})

		Convey("The leader cannot be removed", func() {
			_, err := s.RemoveTeamMember(ctx, "t1", "lead")
			So(errors.Is(err, repository.ErrLeaderRemoval), ShouldBeTrue)
		})

		Convey("Removing a member and a stranger", func() {
			got, err := s.RemoveTeamMember(ctx, "t1", "m1")
			So(err, ShouldBeNil)
			So(got.Members, ShouldResemble, []string{"lead"})

			_, err = s.RemoveTeamMember(ctx, "t1", "stranger")
			So(errors.Is(err, repository.ErrNotMember), ShouldBeTrue)
		})

		Convey("Teams are listed by member", func() {
			teams, err := s.ListTeamsByMember(ctx, "m1")
			So(err, ShouldBeNil)
			So(len(teams), ShouldEqual, 1)
		})

		Convey("Teams need an existing event", func() {
			err := s.CreateTeam(ctx, &model.Team{ID: "t2", EventID: "missing"})
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemStoreScores(t *testing.T) {
	ctx := context.Background()

	Convey("Given a submission", t, func() {
		s := repository.NewMemStore()
		seedEvent(ctx, s, "e1", "org")
		So(s.CreateSubmission(ctx, &model.Submission{ID: "s1", EventID: "e1", Title: "x", Description: "y"}), ShouldBeNil)
		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		first := model.Score{ID: "first", SubmissionID: "s1", EventID: "e1", JudgeID: "A", Round: 1,
			SubScores: model.SubScores{Innovation: 8, Technical: 7, Design: 6, Impact: 5}, CreatedAt: created, UpdatedAt: created}
		first.Recompute()

		Convey("The first write creates the row", func() {
			replaced, err := s.UpsertScore(ctx, &first, repository.UpsertOptions{})
			So(err, ShouldBeNil)
			So(replaced, ShouldBeFalse)

			Convey("A second write to the same slot replaces it and keeps its identity", func() {
				later := created.Add(time.Hour)
				second := model.Score{ID: "second", SubmissionID: "s1", EventID: "e1", JudgeID: "A", Round: 1,
					SubScores: model.SubScores{Innovation: 9, Technical: 8, Design: 7, Impact: 6}, CreatedAt: later, UpdatedAt: later}
				second.Recompute()
				replaced, err := s.UpsertScore(ctx, &second, repository.UpsertOptions{})
				So(err, ShouldBeNil)
				So(replaced, ShouldBeTrue)
				So(second.ID, ShouldEqual, "first")
				So(second.CreatedAt, ShouldEqual, created)

				scores, err := s.ListScores(ctx, "s1")
				So(err, ShouldBeNil)
				So(len(scores), ShouldEqual, 1)
				So(scores[0].Total, ShouldEqual, 30)
				So(scores[0].UpdatedAt, ShouldEqual, later)
			})

			Convey("Another round is a separate slot", func() {
				other := first
				other.ID = "r2"
				other.Round = 2
				replaced, err := s.UpsertScore(ctx, &other, repository.UpsertOptions{})
				So(err, ShouldBeNil)
				So(replaced, ShouldBeFalse)
				scores, _ := s.ListEventScores(ctx, "e1")
				So(len(scores), ShouldEqual, 2)
			})
		})

		Convey("RequireExisting fails on an empty slot", func() {
			_, err := s.UpsertScore(ctx, &first, repository.UpsertOptions{RequireExisting: true})
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			scores, _ := s.ListScores(ctx, "s1")
			So(scores, ShouldBeEmpty)
		})

		Convey("Scores need an existing submission", func() {
			orphan := first
			orphan.SubmissionID = "missing"
			_, err := s.UpsertScore(ctx, &orphan, repository.UpsertOptions{})
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})

		Convey("Concurrent writes to one slot leave exactly one row", func() {
			var wg sync.WaitGroup
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					sc := first
					sc.ID = fmt.Sprintf("id-%d", i)
					_, _ = s.UpsertScore(ctx, &sc, repository.UpsertOptions{})
				}(i)
			}
			wg.Wait()
			scores, _ := s.ListScores(ctx, "s1")
			So(len(scores), ShouldEqual, 1)
		})
	})
}

func TestMemStoreOrdering(t *testing.T) {
	ctx := context.Background()

	Convey("Given several records of one event", t, func() {
		s := repository.NewMemStore()
		seedEvent(ctx, s, "e1", "org")
		for i, id := range []string{"s1", "s2", "s3"} {
			So(s.CreateSubmission(ctx, &model.Submission{ID: id, EventID: "e1", Title: id, Description: "d", HeuristicScore: i}), ShouldBeNil)
		}
		now := time.Now()
		So(s.CreateTimeline(ctx, &model.Timeline{ID: "late", EventID: "e1", Label: "Demo", Order: 2, CreatedAt: now}), ShouldBeNil)
		So(s.CreateTimeline(ctx, &model.Timeline{ID: "early", EventID: "e1", Label: "Kickoff", Order: 0, CreatedAt: now}), ShouldBeNil)
		So(s.CreateAnnouncement(ctx, &model.Announcement{ID: "a1", EventID: "e1", Message: "one"}), ShouldBeNil)
		So(s.CreateAnnouncement(ctx, &model.Announcement{ID: "a2", EventID: "e1", Message: "two"}), ShouldBeNil)

		Convey("Submissions keep creation order", func() {
			subs, err := s.ListSubmissions(ctx, "e1")
			So(err, ShouldBeNil)
			So([]string{subs[0].ID, subs[1].ID, subs[2].ID}, ShouldResemble, []string{"s1", "s2", "s3"})
		})

		Convey("Milestones are ordered by their order field", func() {
			timeline, err := s.ListTimeline(ctx, "e1")
			So(err, ShouldBeNil)
			So(timeline[0].ID, ShouldEqual, "early")

			m, err := s.UpdateTimelineStatus(ctx, "late", model.MilestoneCompleted)
			So(err, ShouldBeNil)
			So(m.Status, ShouldEqual, model.MilestoneCompleted)
		})

		Convey("Announcements are newest first", func() {
			list, err := s.ListAnnouncements(ctx, "e1")
			So(err, ShouldBeNil)
			So(list[0].ID, ShouldEqual, "a2")
		})

		Convey("Empty events list as empty slices", func() {
			subs, err := s.ListSubmissions(ctx, "other")
			So(err, ShouldBeNil)
			So(subs, ShouldNotBeNil)
			So(subs, ShouldBeEmpty)
		})

		Convey("Ping and Close succeed", func() {
			So(s.Ping(ctx), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})
	})
}
