package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/hacksphere/internal/adapters/report"
	"github.com/okian/hacksphere/internal/domain/types"
)

// LeaderboardHandler handles the read side of an event.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type leaderboardResponse struct {
	EventID string        `json:"event_id"`
	Round   int           `json:"round"`
	Entries []types.Entry `json:"entries"`
}

// HandleGetLeaderboard handles GET /api/events/{eventID}/leaderboard?round=N.
// Without a round every round is pooled.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	round, err := queryInt(r, "round")
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	eventID := chi.URLParam(r, "eventID")
	entries, err := h.deps.GetLeaderboard(r.Context(), eventID, round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{EventID: eventID, Round: round, Entries: entries})
}

// HandleGetAnalytics handles GET /api/events/{eventID}/analytics.
func (h *LeaderboardHandler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.GetEventAnalytics(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.get_analytics", err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleGetReport handles GET /api/events/{eventID}/report.xlsx.
func (h *LeaderboardHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	data, err := h.deps.BuildReport(r.Context(), eventID)
	if err != nil {
		writeError(w, r, Wrap("api.get_report", err))
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="event-`+eventID+`.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
