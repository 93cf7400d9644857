package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/hacksphere/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntryJSON(t *testing.T) {
	Convey("Given a leaderboard entry", t, func() {
		entry := types.Entry{
			Rank: 1, Kind: types.KindTeam, ID: "t1", Name: "Team B",
			Score: 20, Source: types.SourceJudges, JudgeScores: 1, SubmissionCount: 1,
		}

		Convey("It encodes with snake_case keys", func() {
			b, err := json.Marshal(entry)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual,
				`{"rank":1,"kind":"team","id":"t1","name":"Team B","score":20,"source":"judges","judge_scores":1,"submissions":1}`)
		})
	})
}
