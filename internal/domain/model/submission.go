package model

import (
	"strings"
	"time"
)

// Submission is a project entered into an event. HeuristicScore is computed
// once when the submission is created and never rewritten.
type Submission struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id" validate:"notblank"`
	TeamID         string    `json:"team_id,omitempty"`
	SubmittedBy    string    `json:"submitted_by,omitempty"`
	Title          string    `json:"title" validate:"notblank,max=200"`
	Description    string    `json:"description" validate:"notblank"`
	RepoURL        string    `json:"repo_url,omitempty" validate:"omitempty,http_url"`
	VideoURL       string    `json:"video_url,omitempty" validate:"omitempty,http_url"`
	Track          string    `json:"track,omitempty"`
	Tags           []string  `json:"tags"`
	HeuristicScore int       `json:"heuristic_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate normalizes tags and URLs and checks the submission.
func (s *Submission) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	s.RepoURL = strings.TrimSpace(s.RepoURL)
	s.VideoURL = strings.TrimSpace(s.VideoURL)
	tags, err := NormalizeTags(s.Tags)
	if err != nil {
		return err
	}
	s.Tags = tags
	return Validate(s)
}

// NormalizeTags trims every tag and rejects blank tags and tags repeated
// case-insensitively. The first spelling of each tag is kept in order.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, Invalid("tags", "must not contain blank tags")
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			return nil, Invalid("tags", "duplicate tag %q", tag)
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}
