package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/hacksphere/internal/domain/model"
)

// TeamsHandler handles teams and their members.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

type teamRequest struct {
	Name       string   `json:"name" validate:"required"`
	LeaderID   string   `json:"leader_id" validate:"required"`
	Members    []string `json:"members"`
	MaxMembers int      `json:"max_members" validate:"omitempty,min=1,max=10"`
}

type memberRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

// HandleListTeams handles GET /api/events/{eventID}/teams.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.ListTeams(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_teams", err))
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleCreateTeam handles POST /api/events/{eventID}/teams.
func (h *TeamsHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_team"
	var req teamRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.deps.CreateTeam(r.Context(), model.Team{
		EventID:    chi.URLParam(r, "eventID"),
		Name:       req.Name,
		LeaderID:   req.LeaderID,
		Members:    req.Members,
		MaxMembers: req.MaxMembers,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// HandleGetTeam handles GET /api/teams/{teamID}.
func (h *TeamsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		writeError(w, r, Wrap("api.get_team", err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleListMembers handles GET /api/teams/{teamID}/members.
func (h *TeamsHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_members", err))
		return
	}
	writeJSON(w, http.StatusOK, t.Members)
}

// HandleAddMember handles POST /api/teams/{teamID}/members.
func (h *TeamsHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_member"
	var req memberRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.deps.AddTeamMember(r.Context(), chi.URLParam(r, "teamID"), req.MemberID)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleRemoveMember handles DELETE /api/teams/{teamID}/members/{memberID}.
func (h *TeamsHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.RemoveTeamMember(r.Context(), chi.URLParam(r, "teamID"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, r, Wrap("api.remove_member", err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleListUserTeams handles GET /api/users/{userID}/teams.
func (h *TeamsHandler) HandleListUserTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.ListUserTeams(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_user_teams", err))
		return
	}
	writeJSON(w, http.StatusOK, teams)
}
