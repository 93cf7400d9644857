package testevents

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/hacksphere/internal/adapters/http/api"
	service "github.com/okian/hacksphere/internal/app"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
	"github.com/okian/hacksphere/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func smallConfig(baseURL string) *Config {
	return &Config{
		BaseURL:            baseURL,
		Teams:              3,
		SubmissionsPerTeam: 2,
		SoloSubmissions:    1,
		Judges:             2,
		Rounds:             2,
		Coverage:           100,
		Rescores:           3,
		Workers:            4,
		Timeout:            5 * time.Second,
		Seed:               7,
	}
}

func startServer(t *testing.T, opts ...api.Option) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithWorkerCount(1))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(svc, opts...).Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Stop(context.Background())
	})
	return srv
}

func submissionWithID(id string) model.Submission {
	return model.Submission{ID: id, EventID: "e1"}
}

func TestGeneratePlan(t *testing.T) {
	Convey("Given a seeded configuration", t, func() {
		ctx := context.Background()
		config := smallConfig("http://unused")

		Convey("The same seed yields the same plan", func() {
			So(generatePlan(ctx, config, 10), ShouldResemble, generatePlan(ctx, config, 10))
		})

		Convey("The plan covers every team, project and judge slot", func() {
			plan := generatePlan(ctx, config, 10)
			So(plan.Seed, ShouldEqual, uint64(7))
			So(plan.Teams, ShouldHaveLength, 3)
			So(plan.Submissions, ShouldHaveLength, 7)
			So(plan.Scorecards, ShouldHaveLength, 7*2*2)
			So(plan.Rescores, ShouldHaveLength, 3)
			So(plan.Submissions[6].Team, ShouldEqual, -1)

			for _, team := range plan.Teams {
				So(team.Members[0], ShouldEqual, team.LeaderID)
				So(len(team.Members), ShouldBeLessThanOrEqualTo, team.MaxMembers)
			}
			for _, sub := range plan.Submissions {
				So(sub.Tags, ShouldHaveLength, 2)
				So(sub.Tags[0], ShouldNotEqual, sub.Tags[1])
			}
			for _, card := range append(plan.Scorecards, plan.Rescores...) {
				So(card.Total(), ShouldBeGreaterThan, 0)
				for _, v := range []int{card.Innovation, card.Technical, card.Design, card.Impact} {
					So(v, ShouldBeBetweenOrEqual, 0, 10)
				}
			}
		})

		Convey("Zero coverage plans no scorecards", func() {
			config.Coverage = 0
			plan := generatePlan(ctx, config, 10)
			So(plan.Scorecards, ShouldBeEmpty)
			So(plan.Rescores, ShouldBeEmpty)
		})
	})
}

func TestExpectedScores(t *testing.T) {
	Convey("Given a first pass and a revision of the same slot", t, func() {
		report := &Report{
			EventID: "e1",
			Plan: &Plan{
				Scorecards: []Scorecard{
					{Submission: 0, JudgeID: "j1", Round: 1, Innovation: 5},
					{Submission: 1, JudgeID: "j1", Round: 1, Innovation: 2},
				},
				Rescores: []Scorecard{
					{Submission: 0, JudgeID: "j1", Round: 1, Innovation: 9, Impact: 1},
				},
			},
		}
		report.Submissions = append(report.Submissions, submissionWithID("s1"), submissionWithID("s2"))

		Convey("The revision wins and keeps the slot's position", func() {
			scores := expectedScores(report)
			So(scores, ShouldHaveLength, 2)
			So(scores[0].SubmissionID, ShouldEqual, "s1")
			So(scores[0].Total, ShouldEqual, 10)
			So(scores[1].Total, ShouldEqual, 2)
		})
	})
}

func TestVerifyOrder(t *testing.T) {
	Convey("Given leaderboard entries", t, func() {
		Convey("Dense ranks in descending order pass", func() {
			So(verifyOrder([]types.Entry{
				{Rank: 1, Score: 30}, {Rank: 1, Score: 30}, {Rank: 2, Score: 12.5},
			}), ShouldBeNil)
		})
		Convey("A higher score below a lower one fails", func() {
			So(verifyOrder([]types.Entry{{Rank: 1, Score: 10}, {Rank: 2, Score: 20}}), ShouldNotBeNil)
		})
		Convey("A skipped rank fails", func() {
			So(verifyOrder([]types.Entry{{Rank: 1, Score: 30}, {Rank: 1, Score: 30}, {Rank: 3, Score: 10}}), ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := startServer(t)
		config := smallConfig(srv.URL)
		config.OutputFile = filepath.Join(t.TempDir(), "out", "report.json")

		Convey("The simulation registers, judges and verifies the event", func() {
			report, err := Run(context.Background(), config)
			So(err, ShouldBeNil)
			So(report.EventID, ShouldNotBeEmpty)
			So(report.Teams, ShouldHaveLength, 3)
			So(report.Submissions, ShouldHaveLength, 7)
			So(report.Leaderboards, ShouldHaveLength, 3)

			// three teams and one solo project
			So(report.Leaderboards[0].Entries, ShouldHaveLength, 4)
			for _, e := range report.Leaderboards[0].Entries {
				So(e.Source, ShouldEqual, types.SourceJudges)
			}

			So(report.Stats.ScorecardsSent, ShouldEqual, 28+3)
			So(report.Stats.ScorecardsCreated, ShouldEqual, 28)
			So(report.Stats.ScorecardsReplaced, ShouldEqual, 3)
			So(report.Stats.ScorecardsFailed, ShouldEqual, 0)

			data, err := os.ReadFile(config.OutputFile)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, report.EventID)
		})

		Convey("Without judges the ranking falls back to heuristics", func() {
			config.Coverage = 0
			report, err := Run(context.Background(), config)
			So(err, ShouldBeNil)
			for _, e := range report.Leaderboards[0].Entries {
				So(e.Source, ShouldEqual, types.SourceHeuristic)
			}
		})
	})

	Convey("Given a service that throttles judges", t, func() {
		srv := startServer(t, api.WithJudgeRateLimit(100, 1))
		config := smallConfig(srv.URL)

		Convey("Rate-limited scorecards are retried until accepted", func() {
			report, err := Run(context.Background(), config)
			So(err, ShouldBeNil)
			So(report.Stats.ScorecardsFailed, ShouldEqual, 0)
			So(report.Stats.ScorecardsCreated, ShouldEqual, 28)
		})
	})

	Convey("Given an unreachable service", t, func() {
		srv := startServer(t)
		url := srv.URL
		srv.Close()

		Convey("Run fails the health check", func() {
			_, err := Run(context.Background(), smallConfig(url))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}
