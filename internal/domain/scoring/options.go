package scoring

import (
	"slices"
	"strings"
)

// Option configures a Heuristic.
type Option func(*Heuristic)

// WithBuckets replaces the keyword table. Keywords are lowercased and
// trimmed; blank keywords and keywords already listed earlier in the table
// are dropped so each keyword is counted once.
func WithBuckets(buckets []Bucket) Option {
	return func(h *Heuristic) {
		seen := make(map[string]struct{})
		table := make([]Bucket, 0, len(buckets))
		total := 0
		for _, b := range buckets {
			kws := make([]string, 0, len(b.Keywords))
			for _, kw := range b.Keywords {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw == "" {
					continue
				}
				if _, ok := seen[kw]; ok {
					continue
				}
				seen[kw] = struct{}{}
				kws = append(kws, kw)
			}
			table = append(table, Bucket{Name: strings.TrimSpace(b.Name), Keywords: kws})
			total += len(kws)
		}
		h.buckets = table
		h.keywords = total
	}
}

// WithKeywordTable replaces the keyword table from a name -> keywords map,
// as read from configuration. The built-in bucket names keep their usual
// order; other names follow alphabetically. An empty map keeps the default.
func WithKeywordTable(table map[string][]string) Option {
	return func(h *Heuristic) {
		if len(table) == 0 {
			return
		}
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		rank := make(map[string]int)
		for i, b := range DefaultBuckets() {
			rank[b.Name] = i
		}
		slices.SortFunc(names, func(a, b string) int {
			ra, oka := rank[a]
			rb, okb := rank[b]
			switch {
			case oka && okb:
				return ra - rb
			case oka:
				return -1
			case okb:
				return 1
			default:
				return strings.Compare(a, b)
			}
		})
		buckets := make([]Bucket, 0, len(names))
		for _, name := range names {
			buckets = append(buckets, Bucket{Name: name, Keywords: table[name]})
		}
		WithBuckets(buckets)(h)
	}
}

// WithBoosts sets the points added for a repository URL and a video URL.
// Negative values are ignored.
func WithBoosts(repo, video int) Option {
	return func(h *Heuristic) {
		if repo >= 0 {
			h.repoBoost = repo
		}
		if video >= 0 {
			h.videoBoost = video
		}
	}
}
