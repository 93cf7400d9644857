package testevents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/pkg/logger"
)

const (
	maxDescriptionKeywords = 8
	eventDuration          = 48 * time.Hour
)

var tracks = []string{"ai", "fintech", "climate", "health", "education"}

// generatePlan lays out an event with teams, projects and judge scorecards.
// The same seed and config always yield the same plan.
func generatePlan(ctx context.Context, config *Config, rubricMax int) *Plan {
	seed := config.Seed
	if seed == 0 {
		seed = gofakeit.Uint64()
	}
	f := gofakeit.New(seed)
	vocabulary := keywordVocabulary()

	start := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(f.Number(0, 365)) * 24 * time.Hour)
	plan := &Plan{
		Seed: seed,
		Event: model.Event{
			Title:       f.Company() + " Hackathon",
			Theme:       f.BuzzWord(),
			Description: f.HackerPhrase(),
			Mode:        model.EventMode(f.RandomString([]string{"online", "offline", "hybrid"})),
			Tracks:      tracks,
			Rules:       []string{"Teams of up to " + fmt.Sprint(maxTeamMembers), "Original work only"},
			Prizes:      []string{"Grand prize", "Best design"},
			Sponsors:    []string{f.Company(), f.Company()},
			StartDate:   start,
			EndDate:     start.Add(eventDuration),
			CreatedBy:   "organizer-" + strings.ToLower(f.Username()),
		},
	}

	for i := 0; i < config.Teams; i++ {
		size := f.Number(1, maxTeamMembers)
		members := make([]string, 0, size)
		for m := 0; m < size; m++ {
			members = append(members, fmt.Sprintf("%s-%d-%d", strings.ToLower(f.Username()), i, m))
		}
		plan.Teams = append(plan.Teams, model.Team{
			Name:       fmt.Sprintf("%s %d", f.AppName(), i+1),
			LeaderID:   members[0],
			Members:    members,
			MaxMembers: maxTeamMembers,
		})
	}

	for i := range plan.Teams {
		team := plan.Teams[i]
		for n := 0; n < config.SubmissionsPerTeam; n++ {
			plan.Submissions = append(plan.Submissions, planSubmission(f, vocabulary, i, team.Members[f.Number(0, len(team.Members)-1)]))
		}
	}
	for n := 0; n < config.SoloSubmissions; n++ {
		plan.Submissions = append(plan.Submissions, planSubmission(f, vocabulary, -1, fmt.Sprintf("solo-%s-%d", strings.ToLower(f.Username()), n)))
	}

	for s := range plan.Submissions {
		for j := 0; j < config.Judges; j++ {
			for r := 1; r <= config.Rounds; r++ {
				if f.Number(1, PercentageMultiplier) > config.Coverage {
					continue
				}
				plan.Scorecards = append(plan.Scorecards, planScorecard(f, s, fmt.Sprintf("judge-%d", j+1), r, rubricMax))
			}
		}
	}

	// consecutive scorecards from a random start are distinct slots
	if n := len(plan.Scorecards); n > 0 {
		start := f.Number(0, n-1)
		for k := 0; k < min(config.Rescores, n); k++ {
			orig := plan.Scorecards[(start+k)%n]
			plan.Rescores = append(plan.Rescores, planScorecard(f, orig.Submission, orig.JudgeID, orig.Round, rubricMax))
		}
	}

	logger.Get().Info(ctx, "simulation planned",
		logger.Any("seed", seed),
		logger.Int("teams", len(plan.Teams)),
		logger.Int("submissions", len(plan.Submissions)),
		logger.Int("scorecards", len(plan.Scorecards)),
		logger.Int("rescores", len(plan.Rescores)))
	return plan
}

func planSubmission(f *gofakeit.Faker, vocabulary []string, team int, author string) SubmissionPlan {
	words := []string{f.HackerPhrase()}
	for n := f.Number(0, maxDescriptionKeywords); n > 0; n-- {
		words = append(words, vocabulary[f.Number(0, len(vocabulary)-1)])
	}
	first := f.Number(0, len(vocabulary)-1)
	second := (first + 1 + f.Number(0, len(vocabulary)-2)) % len(vocabulary)

	sub := SubmissionPlan{
		Team:        team,
		SubmittedBy: author,
		Title:       f.AppName(),
		Description: strings.Join(words, " "),
		Track:       f.RandomString(tracks),
		Tags:        []string{vocabulary[first], vocabulary[second]},
	}
	if f.Bool() {
		sub.RepoURL = f.URL()
	}
	if f.Bool() {
		sub.VideoURL = f.URL()
	}
	return sub
}

func planScorecard(f *gofakeit.Faker, submission int, judge string, round, rubricMax int) Scorecard {
	sc := Scorecard{
		Submission: submission,
		JudgeID:    judge,
		Round:      round,
		Innovation: f.Number(0, rubricMax),
		Technical:  f.Number(0, rubricMax),
		Design:     f.Number(0, rubricMax),
		Impact:     f.Number(0, rubricMax),
		Feedback:   f.HackerPhrase(),
	}
	if sc.Total() == 0 {
		sc.Innovation = 1
	}
	return sc
}

func keywordVocabulary() []string {
	var out []string
	for _, b := range scoring.DefaultBuckets() {
		out = append(out, b.Keywords...)
	}
	return out
}
