package model

import (
	"strings"
	"time"
)

// Team size limits.
const (
	DefaultMaxMembers = 4
	MaxTeamSize       = 10
)

// Team groups participants of one event. The leader is always Members[0].
type Team struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id" validate:"notblank"`
	Name       string    `json:"name" validate:"notblank,max=100"`
	LeaderID   string    `json:"leader_id" validate:"notblank"`
	Members    []string  `json:"members" validate:"min=1"`
	MaxMembers int       `json:"max_members" validate:"min=1,max=10"`
	CreatedAt  time.Time `json:"created_at"`
}

// Normalize puts the leader first in the member list, drops blank and
// repeated identities and applies the default size limit.
func (t *Team) Normalize() {
	t.LeaderID = strings.TrimSpace(t.LeaderID)
	if t.MaxMembers == 0 {
		t.MaxMembers = DefaultMaxMembers
	}
	members := make([]string, 0, len(t.Members)+1)
	seen := make(map[string]struct{}, len(t.Members)+1)
	for _, m := range append([]string{t.LeaderID}, t.Members...) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		members = append(members, m)
	}
	t.Members = members
}

// Validate normalizes and checks the team.
func (t *Team) Validate() error {
	t.Normalize()
	if err := Validate(t); err != nil {
		return err
	}
	if len(t.Members) > t.MaxMembers {
		return Invalid("members", "team allows at most %d members", t.MaxMembers)
	}
	return nil
}

// HasMember reports whether id belongs to the team.
func (t *Team) HasMember(id string) bool {
	for _, m := range t.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Full reports whether the team has reached its size limit.
func (t *Team) Full() bool {
	return len(t.Members) >= t.MaxMembers
}
