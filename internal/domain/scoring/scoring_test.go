package scoring_test

import (
	"math"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	scoring "github.com/okian/hacksphere/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeuristicScore(t *testing.T) {
	Convey("Given the default heuristic", t, func() {
		h := scoring.NewHeuristic()

		Convey("The table has 24 keywords in four buckets", func() {
			buckets := h.Buckets()
			So(len(buckets), ShouldEqual, 4)
			total := 0
			for _, b := range buckets {
				total += len(b.Keywords)
			}
			So(total, ShouldEqual, 24)
		})

		Convey("A strongly overlapping submission with both URLs", func() {
			in := scoring.Input{
				Title:       "Gamified AI Campus Map",
				Description: "a novel 3d metaverse tool for teams to self-organize, built with tailwind and framer",
				Tags:        []string{"ai", "3d"},
				RepoURL:     "https://x",
				VideoURL:    "https://y",
			}
			b := h.Explain(in)

			Convey("Then each matching keyword counts once", func() {
				// novel gamified 3d metaverse ai | team | - | tailwind framer map
				So(b.Hits, ShouldEqual, 9)
				So(b.Base, ShouldEqual, int(math.Round(100*9/24.0)))
				So(b.Boost, ShouldEqual, 10)
				So(b.Score, ShouldEqual, 48)
				So(h.Score(in), ShouldEqual, b.Score)
			})

			Convey("Then the breakdown lists matches per bucket", func() {
				So(b.Buckets[0].Name, ShouldEqual, "innovation")
				So(b.Buckets[0].Matched, ShouldResemble, []string{"novel", "gamified", "3d", "metaverse", "ai"})
				So(b.Buckets[1].Matched, ShouldResemble, []string{"team"})
				So(b.Buckets[2].Matched, ShouldBeEmpty)
				So(b.Buckets[3].Matched, ShouldResemble, []string{"tailwind", "framer", "map"})
			})
		})

		Convey("An empty description with no tags and no URLs scores zero", func() {
			So(h.Score(scoring.Input{Title: "Hello World"}), ShouldEqual, 0)
			So(h.Score(scoring.Input{}), ShouldEqual, 0)
		})

		Convey("Keywords repeated in the text count once", func() {
			once := h.Score(scoring.Input{Title: "cloud"})
			many := h.Score(scoring.Input{Title: "cloud cloud", Description: "CLOUD", Tags: []string{"cloud"}})
			So(once, ShouldEqual, many)
			So(once, ShouldEqual, 4) // round(100/24)
		})

		Convey("Whitespace-only URLs earn no boost", func() {
			So(h.Score(scoring.Input{RepoURL: "  ", VideoURL: "\t"}), ShouldEqual, 0)
		})

		Convey("The result is capped at 100", func() {
			all := []string{}
			for _, b := range h.Buckets() {
				all = append(all, b.Keywords...)
			}
			in := scoring.Input{Description: strings.Join(all, " "), RepoURL: "https://r", VideoURL: "https://v"}
			b := h.Explain(in)
			So(b.Base, ShouldEqual, 100)
			So(b.Score, ShouldEqual, 100)
		})
	})
}

func TestHeuristicProperties(t *testing.T) {
	Convey("Given random submissions", t, func() {
		faker := gofakeit.New(42)
		h := scoring.NewHeuristic()
		vocabulary := []string{"ai", "cloud", "map", "judge", "neon", "team", "scale", "novel"}

		for i := 0; i < 200; i++ {
			n := faker.Number(0, 12)
			words := make([]string, 0, n)
			for j := 0; j < n; j++ {
				if faker.Bool() {
					words = append(words, vocabulary[faker.Number(0, len(vocabulary)-1)])
				} else {
					words = append(words, faker.Word())
				}
			}
			in := scoring.Input{
				Title:       faker.AppName(),
				Description: strings.Join(words, " "),
				Tags:        []string{faker.Word(), faker.Word()},
			}
			if faker.Bool() {
				in.RepoURL = faker.URL()
			}

			score := h.Score(in)
			So(score, ShouldBeBetweenOrEqual, 0, 100)
			So(h.Score(in), ShouldEqual, score)

			withBoth := in
			withBoth.RepoURL = faker.URL()
			withBoth.VideoURL = faker.URL()
			b := h.Explain(withBoth)
			So(b.Score, ShouldEqual, min(100, b.Base+10))
			So(b.Score, ShouldBeLessThanOrEqualTo, 100)
		}
	})
}

func TestHeuristicOptions(t *testing.T) {
	Convey("Given custom options", t, func() {
		Convey("WithBoosts changes the URL boosts", func() {
			h := scoring.NewHeuristic(scoring.WithBoosts(0, 20))
			So(h.Score(scoring.Input{RepoURL: "https://r", VideoURL: "https://v"}), ShouldEqual, 20)
		})

		Convey("Negative boosts are ignored", func() {
			h := scoring.NewHeuristic(scoring.WithBoosts(-1, -1))
			So(h.Score(scoring.Input{RepoURL: "https://r"}), ShouldEqual, scoring.DefaultRepoBoost)
		})

		Convey("WithKeywordTable orders known buckets first and normalizes keywords", func() {
			h := scoring.NewHeuristic(scoring.WithKeywordTable(map[string][]string{
				"zeta":       {"Rust"},
				"uiux":       {" Figma ", ""},
				"innovation": {"quantum", "rust"},
			}))
			buckets := h.Buckets()
			So(len(buckets), ShouldEqual, 3)
			So(buckets[0].Name, ShouldEqual, "innovation")
			So(buckets[1].Name, ShouldEqual, "uiux")
			So(buckets[1].Keywords, ShouldResemble, []string{"figma"})
			So(buckets[2].Name, ShouldEqual, "zeta")
			So(buckets[2].Keywords, ShouldBeEmpty)

			// three distinct keywords, one hit
			So(h.Score(scoring.Input{Title: "Quantum notes"}), ShouldEqual, 33)
		})

		Convey("An empty keyword table keeps the default", func() {
			h := scoring.NewHeuristic(scoring.WithKeywordTable(nil))
			So(len(h.Buckets()), ShouldEqual, 4)
		})

		Convey("A table without keywords scores only the boosts", func() {
			h := scoring.NewHeuristic(scoring.WithBuckets([]scoring.Bucket{{Name: "empty"}}))
			So(h.Score(scoring.Input{Title: "ai cloud", VideoURL: "https://v"}), ShouldEqual, 5)
		})
	})
}
