package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/hacksphere/internal/domain/model"
)

// CreateTeam stores a team of an event with its leader as first member.
func (s *Service) CreateTeam(ctx context.Context, t model.Team) (_ model.Team, err error) {
	ctx, span := s.span(ctx, "CreateTeam", attribute.String("event.id", t.EventID))
	defer func() { end(span, err) }()

	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return model.Team{}, err
	}
	t.ID = s.newID()
	t.CreatedAt = s.now()
	if err := s.store.CreateTeam(ctx, &t); err != nil {
		return model.Team{}, err
	}
	s.invalidate(ctx, t.EventID)
	return t, nil
}

// GetTeam returns a team.
func (s *Service) GetTeam(ctx context.Context, id string) (_ model.Team, err error) {
	ctx, span := s.span(ctx, "GetTeam", attribute.String("team.id", id))
	defer func() { end(span, err) }()
	return s.store.GetTeam(ctx, id)
}

// ListTeams returns an event's teams in creation order.
func (s *Service) ListTeams(ctx context.Context, eventID string) (_ []model.Team, err error) {
	ctx, span := s.span(ctx, "ListTeams", attribute.String("event.id", eventID))
	defer func() { end(span, err) }()

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListTeams(ctx, eventID)
}

// ListUserTeams returns the teams a participant belongs to.
func (s *Service) ListUserTeams(ctx context.Context, member string) (_ []model.Team, err error) {
	ctx, span := s.span(ctx, "ListUserTeams")
	defer func() { end(span, err) }()
	return s.store.ListTeamsByMember(ctx, strings.TrimSpace(member))
}

// AddTeamMember adds a participant to a team that is not full.
func (s *Service) AddTeamMember(ctx context.Context, teamID, member string) (_ model.Team, err error) {
	ctx, span := s.span(ctx, "AddTeamMember", attribute.String("team.id", teamID))
	defer func() { end(span, err) }()

	member = strings.TrimSpace(member)
	if member == "" {
		return model.Team{}, model.Invalid("member_id", "must not be blank")
	}
	t, err := s.store.AddTeamMember(ctx, teamID, member)
	if err != nil {
		return model.Team{}, err
	}
	s.invalidate(ctx, t.EventID)
	return t, nil
}

// RemoveTeamMember removes a participant other than the leader.
func (s *Service) RemoveTeamMember(ctx context.Context, teamID, member string) (_ model.Team, err error) {
	ctx, span := s.span(ctx, "RemoveTeamMember", attribute.String("team.id", teamID))
	defer func() { end(span, err) }()

	t, err := s.store.RemoveTeamMember(ctx, teamID, strings.TrimSpace(member))
	if err != nil {
		return model.Team{}, err
	}
	s.invalidate(ctx, t.EventID)
	return t, nil
}
