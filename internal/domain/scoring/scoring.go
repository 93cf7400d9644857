// Package scoring computes the first-impression heuristic of a submission
// and checks judge scorecards against the rubric.
package scoring

import (
	"math"
	"strings"
)

// Score bounds and default boosts.
const (
	MaxScore          = 100
	DefaultRepoBoost  = 5
	DefaultVideoBoost = 5
)

// Bucket is a rubric area and the lowercase keywords that signal it.
type Bucket struct {
	Name     string
	Keywords []string
}

// DefaultBuckets returns the built-in keyword table (24 keywords).
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: "innovation", Keywords: []string{"novel", "gamified", "3d", "metaverse", "unique", "ai"}},
		{Name: "functionality", Keywords: []string{"upload", "submission", "team", "score", "judge", "realtime"}},
		{Name: "scalability", Keywords: []string{"azure", "mongodb", "sql", "serverless", "cloud", "scale"}},
		{Name: "uiux", Keywords: []string{"tailwind", "framer", "neon", "dark", "animation", "map"}},
	}
}

// Input holds the submission fields the heuristic reads.
type Input struct {
	Title       string
	Description string
	Tags        []string
	RepoURL     string
	VideoURL    string
}

func (in Input) text() string {
	return strings.ToLower(in.Title + " " + in.Description + " " + strings.Join(in.Tags, " "))
}

// Scorer produces a 0-100 first-impression score.
type Scorer interface {
	Score(in Input) int
}

// Heuristic scores a submission by keyword overlap with the rubric table.
// It is immutable after construction and safe for concurrent use.
type Heuristic struct {
	buckets    []Bucket
	keywords   int
	repoBoost  int
	videoBoost int
}

// NewHeuristic creates a heuristic scorer over the default table.
func NewHeuristic(opts ...Option) *Heuristic {
	h := &Heuristic{
		repoBoost:  DefaultRepoBoost,
		videoBoost: DefaultVideoBoost,
	}
	WithBuckets(DefaultBuckets())(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BucketResult lists the keywords of one bucket found in a submission.
type BucketResult struct {
	Name     string   `json:"name"`
	Matched  []string `json:"matched"`
	Hits     int      `json:"hits"`
	Keywords int      `json:"keywords"`
}

// Breakdown explains how a heuristic score was reached.
type Breakdown struct {
	Hits     int            `json:"hits"`
	Keywords int            `json:"keywords"`
	Base     int            `json:"base"`
	Boost    int            `json:"boost"`
	Score    int            `json:"score"`
	Buckets  []BucketResult `json:"buckets"`
}

// Score returns min(100, round(100*hits/keywords) + boosts). It never fails;
// missing fields count as empty text.
func (h *Heuristic) Score(in Input) int {
	return h.Explain(in).Score
}

// Explain scores in and reports the matched keywords per bucket.
func (h *Heuristic) Explain(in Input) Breakdown {
	text := in.text()
	b := Breakdown{Keywords: h.keywords, Buckets: make([]BucketResult, 0, len(h.buckets))}
	for _, bucket := range h.buckets {
		res := BucketResult{Name: bucket.Name, Keywords: len(bucket.Keywords), Matched: []string{}}
		for _, kw := range bucket.Keywords {
			if strings.Contains(text, kw) {
				res.Matched = append(res.Matched, kw)
			}
		}
		res.Hits = len(res.Matched)
		b.Hits += res.Hits
		b.Buckets = append(b.Buckets, res)
	}
	if h.keywords > 0 {
		b.Base = int(math.Round(float64(MaxScore*b.Hits) / float64(h.keywords)))
	}
	if strings.TrimSpace(in.RepoURL) != "" {
		b.Boost += h.repoBoost
	}
	if strings.TrimSpace(in.VideoURL) != "" {
		b.Boost += h.videoBoost
	}
	b.Score = clamp(b.Base + b.Boost)
	return b
}

// Buckets returns a copy of the keyword table.
func (h *Heuristic) Buckets() []Bucket {
	out := make([]Bucket, len(h.buckets))
	for i, b := range h.buckets {
		out[i] = Bucket{Name: b.Name, Keywords: append([]string(nil), b.Keywords...)}
	}
	return out
}

func clamp(v int) int {
	return max(0, min(MaxScore, v))
}
