package report

import (
	"bytes"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
)

func TestBuild(t *testing.T) {
	Convey("Given an event with a ranked board", t, func() {
		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		in := Input{
			Event: model.Event{ID: "e1", Title: "Spring Hack"},
			Leaderboard: []types.Entry{
				{Rank: 1, Kind: types.KindTeam, ID: "t1", Name: "Alpha", Score: 31.5, Source: types.SourceJudges, JudgeScores: 2, SubmissionCount: 1},
				{Rank: 2, Kind: types.KindSubmission, ID: "s2", Name: "Solo", Score: 40, Source: types.SourceHeuristic, SubmissionCount: 1},
			},
			Submissions: []model.Submission{
				{ID: "s1", Title: "Alpha App", TeamID: "t1", Tags: []string{"ai", "cloud"}, HeuristicScore: 48, CreatedAt: created},
			},
			Analytics:   types.Analytics{EventID: "e1", Participants: 3, Teams: 1, Submissions: 2, Milestones: 4, CompletedMilestones: 1, CompletionPercent: 25},
			GeneratedAt: created,
		}

		data, err := Build(in)
		So(err, ShouldBeNil)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		So(err, ShouldBeNil)
		defer f.Close()

		Convey("It has the three sheets in order", func() {
			So(f.GetSheetList(), ShouldResemble, []string{SheetLeaderboard, SheetSubmissions, SheetAnalytics})
		})

		Convey("The leaderboard sheet lists entries by rank", func() {
			rows, err := f.GetRows(SheetLeaderboard)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0][0], ShouldEqual, "Rank")
			So(rows[1][:4], ShouldResemble, []string{"1", "team", "Alpha", "31.5"})
			So(rows[2][2], ShouldEqual, "Solo")
		})

		Convey("The submissions sheet joins tags", func() {
			rows, err := f.GetRows(SheetSubmissions)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[1][5], ShouldEqual, "ai, cloud")
			So(rows[1][8], ShouldEqual, "48")
			So(rows[1][9], ShouldEqual, "2025-03-01T12:00:00Z")
		})

		Convey("The analytics sheet carries the headline counts", func() {
			v, err := f.GetCellValue(SheetAnalytics, "B3")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "3")
			v, _ = f.GetCellValue(SheetAnalytics, "B10")
			So(v, ShouldEqual, "25")
		})
	})

	Convey("An empty event still renders headers", t, func() {
		data, err := Build(Input{Event: model.Event{Title: "Empty"}})
		So(err, ShouldBeNil)
		f, err := excelize.OpenReader(bytes.NewReader(data))
		So(err, ShouldBeNil)
		defer f.Close()
		rows, err := f.GetRows(SheetLeaderboard)
		So(err, ShouldBeNil)
		So(rows, ShouldHaveLength, 1)
	})
}
