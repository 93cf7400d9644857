package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/hacksphere/internal/domain/model"
)

// MemStore is an in-memory Store. A single lock guards all state, so every
// operation, including the scorecard check-and-replace, is atomic.
type MemStore struct {
	mu sync.RWMutex

	events        map[string]*model.Event
	timeline      map[string]*model.Timeline
	teams         map[string]*model.Team
	submissions   map[string]*model.Submission
	scores        map[model.ScoreKey]*model.Score
	announcements map[string]*model.Announcement

	// insertion order, used for stable listings
	eventOrder        []string
	teamOrder         []string
	submissionOrder   []string
	scoreOrder        []model.ScoreKey
	announcementOrder []string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		events:        make(map[string]*model.Event),
		timeline:      make(map[string]*model.Timeline),
		teams:         make(map[string]*model.Team),
		submissions:   make(map[string]*model.Submission),
		scores:        make(map[model.ScoreKey]*model.Score),
		announcements: make(map[string]*model.Announcement),
	}
}

func cloneEvent(e *model.Event) model.Event {
	c := *e
	c.Tracks = slices.Clone(e.Tracks)
	c.Rules = slices.Clone(e.Rules)
	c.Prizes = slices.Clone(e.Prizes)
	c.Sponsors = slices.Clone(e.Sponsors)
	return c
}

func cloneTeam(t *model.Team) model.Team {
	c := *t
	c.Members = slices.Clone(t.Members)
	return c
}

func cloneSubmission(s *model.Submission) model.Submission {
	c := *s
	c.Tags = slices.Clone(s.Tags)
	return c
}

// Events

func (s *MemStore) CreateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneEvent(e)
	s.events[e.ID] = &c
	s.eventOrder = append(s.eventOrder, e.ID)
	return nil
}

func (s *MemStore) GetEvent(_ context.Context, id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, NotFound("event", id)
	}
	return cloneEvent(e), nil
}

func (s *MemStore) listEvents(keep func(*model.Event) bool) []model.Event {
	out := make([]model.Event, 0, len(s.eventOrder))
	for i := len(s.eventOrder) - 1; i >= 0; i-- {
		if e := s.events[s.eventOrder[i]]; keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	return out
}

func (s *MemStore) ListEvents(_ context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEvents(func(*model.Event) bool { return true }), nil
}

func (s *MemStore) ListEventsByCreator(_ context.Context, createdBy string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEvents(func(e *model.Event) bool { return e.CreatedBy == createdBy }), nil
}

func (s *MemStore) SetEventActive(_ context.Context, id string, active bool) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, NotFound("event", id)
	}
	e.IsActive = active
	return cloneEvent(e), nil
}

func (s *MemStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return NotFound("event", id)
	}
	delete(s.events, id)
	s.eventOrder = slices.DeleteFunc(s.eventOrder, func(v string) bool { return v == id })

	for k, t := range s.timeline {
		if t.EventID == id {
			delete(s.timeline, k)
		}
	}
	for k, t := range s.teams {
		if t.EventID == id {
			delete(s.teams, k)
		}
	}
	s.teamOrder = slices.DeleteFunc(s.teamOrder, func(v string) bool { _, ok := s.teams[v]; return !ok })
	for k, sub := range s.submissions {
		if sub.EventID == id {
			delete(s.submissions, k)
		}
	}
	s.submissionOrder = slices.DeleteFunc(s.submissionOrder, func(v string) bool { _, ok := s.submissions[v]; return !ok })
	for k, sc := range s.scores {
		if sc.EventID == id {
			delete(s.scores, k)
		}
	}
	s.scoreOrder = slices.DeleteFunc(s.scoreOrder, func(k model.ScoreKey) bool { _, ok := s.scores[k]; return !ok })
	for k, a := range s.announcements {
		if a.EventID == id {
			delete(s.announcements, k)
		}
	}
	s.announcementOrder = slices.DeleteFunc(s.announcementOrder, func(v string) bool { _, ok := s.announcements[v]; return !ok })
	return nil
}

// Timeline

func (s *MemStore) CreateTimeline(_ context.Context, t *model.Timeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[t.EventID]; !ok {
		return NotFound("event", t.EventID)
	}
	c := *t
	s.timeline[t.ID] = &c
	return nil
}

func (s *MemStore) ListTimeline(_ context.Context, eventID string) ([]model.Timeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Timeline, 0)
	for _, t := range s.timeline {
		if t.EventID == eventID {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b model.Timeline) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *MemStore) UpdateTimelineStatus(_ context.Context, id string, status model.MilestoneStatus) (model.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timeline[id]
	if !ok {
		return model.Timeline{}, NotFound("timeline", id)
	}
	t.Status = status
	return *t, nil
}

// Teams

func (s *MemStore) CreateTeam(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[t.EventID]; !ok {
		return NotFound("event", t.EventID)
	}
	c := cloneTeam(t)
	s.teams[t.ID] = &c
	s.teamOrder = append(s.teamOrder, t.ID)
	return nil
}

func (s *MemStore) GetTeam(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return model.Team{}, NotFound("team", id)
	}
	return cloneTeam(t), nil
}

func (s *MemStore) ListTeams(_ context.Context, eventID string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Team, 0)
	for _, id := range s.teamOrder {
		if t := s.teams[id]; t.EventID == eventID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (s *MemStore) ListTeamsByMember(_ context.Context, member string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Team, 0)
	for _, id := range s.teamOrder {
		if t := s.teams[id]; t.HasMember(member) {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (s *MemStore) AddTeamMember(_ context.Context, teamID, member string) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return model.Team{}, NotFound("team", teamID)
	}
	if t.HasMember(member) {
		return model.Team{}, ErrDuplicateMember
	}
	if t.Full() {
		return model.Team{}, ErrTeamFull
	}
	t.Members = append(t.Members, member)
	return cloneTeam(t), nil
}

func (s *MemStore) RemoveTeamMember(_ context.Context, teamID, member string) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return model.Team{}, NotFound("team", teamID)
	}
	if member == t.LeaderID {
		return model.Team{}, ErrLeaderRemoval
	}
	if !t.HasMember(member) {
		return model.Team{}, ErrNotMember
	}
	t.Members = slices.DeleteFunc(t.Members, func(m string) bool { return m == member })
	return cloneTeam(t), nil
}

// Submissions

func (s *MemStore) CreateSubmission(_ context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[sub.EventID]; !ok {
		return NotFound("event", sub.EventID)
	}
	c := cloneSubmission(sub)
	s.submissions[sub.ID] = &c
	s.submissionOrder = append(s.submissionOrder, sub.ID)
	return nil
}

func (s *MemStore) GetSubmission(_ context.Context, id string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return model.Submission{}, NotFound("submission", id)
	}
	return cloneSubmission(sub), nil
}

func (s *MemStore) ListSubmissions(_ context.Context, eventID string) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Submission, 0)
	for _, id := range s.submissionOrder {
		if sub := s.submissions[id]; sub.EventID == eventID {
			out = append(out, cloneSubmission(sub))
		}
	}
	return out, nil
}

// Scores

func (s *MemStore) UpsertScore(_ context.Context, sc *model.Score, opts UpsertOptions) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sc.SubmissionID]; !ok {
		return false, NotFound("submission", sc.SubmissionID)
	}
	key := sc.Key()
	prev, exists := s.scores[key]
	if !exists && opts.RequireExisting {
		return false, NotFound("score", sc.SubmissionID+"/"+sc.JudgeID)
	}
	if exists {
		sc.ID = prev.ID
		sc.CreatedAt = prev.CreatedAt
	} else {
		s.scoreOrder = append(s.scoreOrder, key)
	}
	c := *sc
	s.scores[key] = &c
	return exists, nil
}

func (s *MemStore) ListScores(_ context.Context, submissionID string) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Score, 0)
	for _, k := range s.scoreOrder {
		if k.SubmissionID == submissionID {
			out = append(out, *s.scores[k])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Score) int { return a.Round - b.Round })
	return out, nil
}

func (s *MemStore) ListEventScores(_ context.Context, eventID string) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Score, 0)
	for _, k := range s.scoreOrder {
		if sc := s.scores[k]; sc.EventID == eventID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

// Announcements

func (s *MemStore) CreateAnnouncement(_ context.Context, a *model.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[a.EventID]; !ok {
		return NotFound("event", a.EventID)
	}
	c := *a
	s.announcements[a.ID] = &c
	s.announcementOrder = append(s.announcementOrder, a.ID)
	return nil
}

func (s *MemStore) ListAnnouncements(_ context.Context, eventID string) ([]model.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Announcement, 0)
	for i := len(s.announcementOrder) - 1; i >= 0; i-- {
		if a := s.announcements[s.announcementOrder[i]]; a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// Housekeeping

func (s *MemStore) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Events:        len(s.events),
		Teams:         len(s.teams),
		Submissions:   len(s.submissions),
		Scores:        len(s.scores),
		Announcements: len(s.announcements),
	}, nil
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Close() error { return nil }
