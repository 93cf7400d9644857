package leaderboard_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/hacksphere/internal/domain/leaderboard"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sub(id, team string, heuristic int) model.Submission {
	return model.Submission{ID: id, EventID: "e1", TeamID: team, Title: "Project " + id, HeuristicScore: heuristic}
}

func score(submission, judge string, round, total int) model.Score {
	return model.Score{SubmissionID: submission, EventID: "e1", JudgeID: judge, Round: round, Total: total}
}

func team(id, name string) model.Team {
	return model.Team{ID: id, EventID: "e1", Name: name}
}

func TestBuildEmpty(t *testing.T) {
	Convey("An event with no submissions yields an empty, non-nil leaderboard", t, func() {
		entries := leaderboard.Build(leaderboard.Input{})
		So(entries, ShouldNotBeNil)
		So(entries, ShouldBeEmpty)
	})
}

func TestBuildHeuristicOnly(t *testing.T) {
	Convey("Given submissions without any judge score", t, func() {
		entries := leaderboard.Build(leaderboard.Input{
			Submissions: []model.Submission{sub("a", "", 40), sub("b", "", 75), sub("c", "", 60)},
		})

		Convey("They are ranked by heuristic score, descending", func() {
			ids := []string{entries[0].ID, entries[1].ID, entries[2].ID}
			So(ids, ShouldResemble, []string{"b", "c", "a"})
			for _, e := range entries {
				So(e.Source, ShouldEqual, types.SourceHeuristic)
				So(e.Kind, ShouldEqual, types.KindSubmission)
				So(e.JudgeScores, ShouldEqual, 0)
			}
			So(entries[0].Name, ShouldEqual, "Project b")
		})
	})
}

func TestBuildJudgeMean(t *testing.T) {
	Convey("Given two judges scoring the same submission 26 and 30", t, func() {
		entries := leaderboard.Build(leaderboard.Input{
			Submissions: []model.Submission{sub("s1", "", 95)},
			Scores:      []model.Score{score("s1", "A", 1, 26), score("s1", "B", 1, 30)},
		})

		Convey("The displayed score is 28.0, independent of the heuristic", func() {
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Score, ShouldEqual, 28.0)
			So(entries[0].Source, ShouldEqual, types.SourceJudges)
			So(entries[0].JudgeScores, ShouldEqual, 2)
		})
	})
}

func TestBuildMixedTeams(t *testing.T) {
	Convey("Given 3 teams where only team B has a judge score of 20", t, func() {
		in := leaderboard.Input{
			Teams:       []model.Team{team("A", "Team A"), team("B", "Team B"), team("C", "Team C")},
			Submissions: []model.Submission{sub("sa", "A", 35), sub("sb", "B", 90), sub("sc", "C", 12)},
			Scores:      []model.Score{score("sb", "j1", 1, 20)},
		}
		entries := leaderboard.Build(in)

		Convey("B ranks by 20.0 and A and C by their heuristic scores", func() {
			want := []types.Entry{
				{Rank: 1, Kind: types.KindTeam, ID: "A", Name: "Team A", Score: 35, Source: types.SourceHeuristic, SubmissionCount: 1},
				{Rank: 2, Kind: types.KindTeam, ID: "B", Name: "Team B", Score: 20, Source: types.SourceJudges, JudgeScores: 1, SubmissionCount: 1},
				{Rank: 3, Kind: types.KindTeam, ID: "C", Name: "Team C", Score: 12, Source: types.SourceHeuristic, SubmissionCount: 1},
			}
			So(cmp.Diff(want, entries), ShouldBeEmpty)
		})
	})
}

func TestBuildGrouping(t *testing.T) {
	Convey("Given a team with several submissions", t, func() {
		in := leaderboard.Input{
			Teams: []model.Team{team("T", "Team T")},
			Submissions: []model.Submission{
				sub("s1", "T", 50), sub("s2", "T", 70), sub("solo", "", 55),
			},
		}

		Convey("Without judge scores the team scores its mean heuristic", func() {
			entries := leaderboard.Build(in)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].ID, ShouldEqual, "T")
			So(entries[0].Score, ShouldEqual, 60.0)
			So(entries[0].SubmissionCount, ShouldEqual, 2)
			So(entries[1].ID, ShouldEqual, "solo")
		})

		Convey("With judge scores the team pools every scorecard of its submissions", func() {
			in.Scores = []model.Score{score("s1", "j1", 1, 10), score("s1", "j2", 1, 20), score("s2", "j1", 1, 33)}
			entries := leaderboard.Build(in)
			So(entries[0].ID, ShouldEqual, "solo")
			So(entries[1].ID, ShouldEqual, "T")
			So(entries[1].Score, ShouldEqual, 21.0)
			So(entries[1].JudgeScores, ShouldEqual, 3)
			So(entries[1].Source, ShouldEqual, types.SourceJudges)
		})

		Convey("A submission whose team no longer exists ranks on its own", func() {
			in.Submissions = append(in.Submissions, sub("orphan", "gone", 99))
			entries := leaderboard.Build(in)
			So(entries[0].ID, ShouldEqual, "orphan")
			So(entries[0].Kind, ShouldEqual, types.KindSubmission)
			So(entries[0].Name, ShouldEqual, "Project orphan")
		})

		Convey("A team of another event does not group", func() {
			in.Teams = []model.Team{{ID: "T", EventID: "other", Name: "Team T"}}
			entries := leaderboard.Build(in)
			So(len(entries), ShouldEqual, 3)
		})
	})
}

func TestBuildTiesAndRanks(t *testing.T) {
	Convey("Given equal scores", t, func() {
		entries := leaderboard.Build(leaderboard.Input{
			Submissions: []model.Submission{sub("x", "", 50), sub("y", "", 80), sub("z", "", 50), sub("w", "", 10)},
		})

		Convey("Ties share a dense rank and keep insertion order", func() {
			got := []string{}
			ranks := []int{}
			for _, e := range entries {
				got = append(got, e.ID)
				ranks = append(ranks, e.Rank)
			}
			So(got, ShouldResemble, []string{"y", "x", "z", "w"})
			So(ranks, ShouldResemble, []int{1, 2, 2, 3})
		})
	})

	Convey("Scores that round to the same decimal still order at full precision", t, func() {
		entries := leaderboard.Build(leaderboard.Input{
			Submissions: []model.Submission{sub("low", "", 0), sub("high", "", 0)},
			Scores: []model.Score{
				score("low", "a", 1, 10), score("low", "b", 1, 10), score("low", "c", 1, 11),
				score("high", "a", 1, 10), score("high", "b", 1, 11), score("high", "c", 1, 11),
			},
		})
		// 10.333 vs 10.667
		So(entries[0].ID, ShouldEqual, "high")
		So(entries[0].Score, ShouldEqual, 10.7)
		So(entries[1].Score, ShouldEqual, 10.3)
		So(entries[1].Rank, ShouldEqual, 2)
	})
}

func TestBuildRounds(t *testing.T) {
	Convey("Given scores across rounds", t, func() {
		in := leaderboard.Input{
			Submissions: []model.Submission{sub("s1", "", 5)},
			Scores: []model.Score{
				score("s1", "A", 1, 20), score("s1", "A", 2, 30), score("ghost", "A", 1, 40),
			},
		}

		Convey("All rounds are pooled by default", func() {
			So(leaderboard.Build(in)[0].Score, ShouldEqual, 25.0)
		})

		Convey("A round filter counts only that round", func() {
			in.Round = 2
			So(leaderboard.Build(in)[0].Score, ShouldEqual, 30.0)
		})

		Convey("A round without scores falls back to the heuristic", func() {
			in.Round = 3
			e := leaderboard.Build(in)[0]
			So(e.Score, ShouldEqual, 5.0)
			So(e.Source, ShouldEqual, types.SourceHeuristic)
		})
	})
}

func TestRoundScore(t *testing.T) {
	Convey("RoundScore keeps one decimal", t, func() {
		So(leaderboard.RoundScore(28), ShouldEqual, 28.0)
		So(leaderboard.RoundScore(21.25), ShouldEqual, 21.3)
		So(leaderboard.RoundScore(10.333333), ShouldEqual, 10.3)
	})
}
