package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/hacksphere/internal/domain/model"
)

// CreateEvent validates and stores a new, active event.
func (s *Service) CreateEvent(ctx context.Context, e model.Event) (_ model.Event, err error) {
	ctx, span := s.span(ctx, "CreateEvent")
	defer func() { end(span, err) }()

	e.Title = strings.TrimSpace(e.Title)
	e.CreatedBy = strings.TrimSpace(e.CreatedBy)
	if err := e.Validate(); err != nil {
		return model.Event{}, err
	}
	e.ID = s.newID()
	e.IsActive = true
	e.CreatedAt = s.now()
	e.Tracks = nonNil(e.Tracks)
	e.Rules = nonNil(e.Rules)
	e.Prizes = nonNil(e.Prizes)
	e.Sponsors = nonNil(e.Sponsors)
	if err := s.store.CreateEvent(ctx, &e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// GetEvent returns an event.
func (s *Service) GetEvent(ctx context.Context, id string) (_ model.Event, err error) {
	ctx, span := s.span(ctx, "GetEvent", attribute.String("event.id", id))
	defer func() { end(span, err) }()
	return s.store.GetEvent(ctx, id)
}

// ListEvents returns every event, newest first.
func (s *Service) ListEvents(ctx context.Context) (_ []model.Event, err error) {
	ctx, span := s.span(ctx, "ListEvents")
	defer func() { end(span, err) }()
	return s.store.ListEvents(ctx)
}

// ListOrganizerEvents returns the events an organizer created, newest first.
func (s *Service) ListOrganizerEvents(ctx context.Context, createdBy string) (_ []model.Event, err error) {
	ctx, span := s.span(ctx, "ListOrganizerEvents")
	defer func() { end(span, err) }()
	return s.store.ListEventsByCreator(ctx, createdBy)
}

// SetEventActive opens or closes an event.
func (s *Service) SetEventActive(ctx context.Context, id string, active bool) (_ model.Event, err error) {
	ctx, span := s.span(ctx, "SetEventActive", attribute.String("event.id", id), attribute.Bool("event.active", active))
	defer func() { end(span, err) }()
	return s.store.SetEventActive(ctx, id, active)
}

// DeleteEvent removes an event with its timeline, teams, submissions,
// scorecards and announcements.
func (s *Service) DeleteEvent(ctx context.Context, id string) (err error) {
	ctx, span := s.span(ctx, "DeleteEvent", attribute.String("event.id", id))
	defer func() { end(span, err) }()

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// CreateTimeline adds a milestone to an event.
func (s *Service) CreateTimeline(ctx context.Context, t model.Timeline) (_ model.Timeline, err error) {
	ctx, span := s.span(ctx, "CreateTimeline", attribute.String("event.id", t.EventID))
	defer func() { end(span, err) }()

	t.Label = strings.TrimSpace(t.Label)
	if err := t.Validate(); err != nil {
		return model.Timeline{}, err
	}
	t.ID = s.newID()
	t.CreatedAt = s.now()
	if err := s.store.CreateTimeline(ctx, &t); err != nil {
		return model.Timeline{}, err
	}
	return t, nil
}

// ListTimeline returns an event's milestones in schedule order.
func (s *Service) ListTimeline(ctx context.Context, eventID string) (_ []model.Timeline, err error) {
	ctx, span := s.span(ctx, "ListTimeline", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListTimeline(ctx, eventID)
}

// UpdateTimelineStatus moves a milestone to a new status.
func (s *Service) UpdateTimelineStatus(ctx context.Context, id string, status model.MilestoneStatus) (_ model.Timeline, err error) {
	ctx, span := s.span(ctx, "UpdateTimelineStatus", attribute.String("timeline.id", id))
	defer func() { end(span, err) }()

	if !status.Valid() {
		return model.Timeline{}, model.Invalid("status", "must be one of pending, active, completed")
	}
	return s.store.UpdateTimelineStatus(ctx, id, status)
}

// CreateAnnouncement broadcasts a message to an event.
func (s *Service) CreateAnnouncement(ctx context.Context, a model.Announcement) (_ model.Announcement, err error) {
	ctx, span := s.span(ctx, "CreateAnnouncement", attribute.String("event.id", a.EventID))
	defer func() { end(span, err) }()

	a.Message = strings.TrimSpace(a.Message)
	if err := a.Validate(); err != nil {
		return model.Announcement{}, err
	}
	a.ID = s.newID()
	a.CreatedAt = s.now()
	if err := s.store.CreateAnnouncement(ctx, &a); err != nil {
		return model.Announcement{}, err
	}
	return a, nil
}

// ListAnnouncements returns an event's announcements, newest first.
func (s *Service) ListAnnouncements(ctx context.Context, eventID string) (_ []model.Announcement, err error) {
	ctx, span := s.span(ctx, "ListAnnouncements", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListAnnouncements(ctx, eventID)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
