package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/hacksphere/internal/domain/model"
)

// EventsHandler handles events, their timeline and announcements.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type eventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Theme       string    `json:"theme"`
	Description string    `json:"description"`
	Mode        string    `json:"mode" validate:"omitempty,oneof=online offline hybrid"`
	Tracks      []string  `json:"tracks"`
	Rules       []string  `json:"rules"`
	Prizes      []string  `json:"prizes"`
	Sponsors    []string  `json:"sponsors"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedBy   string    `json:"created_by"`
}

func (e eventRequest) toModel() model.Event {
	return model.Event{
		Title:       e.Title,
		Theme:       e.Theme,
		Description: e.Description,
		Mode:        model.EventMode(e.Mode),
		Tracks:      e.Tracks,
		Rules:       e.Rules,
		Prizes:      e.Prizes,
		Sponsors:    e.Sponsors,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedBy:   e.CreatedBy,
	}
}

type eventStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type timelineRequest struct {
	Label       string    `json:"label" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status" validate:"omitempty,oneof=pending active completed"`
	Order       int       `json:"order" validate:"gte=0"`
}

type timelineStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active completed"`
}

type announcementRequest struct {
	Message   string `json:"message" validate:"required"`
	CreatedBy string `json:"created_by"`
}

// HandleListEvents handles GET /api/events.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, Wrap("api.list_events", err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleCreateEvent handles POST /api/events.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var req eventRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.deps.CreateEvent(r.Context(), req.toModel())
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandleGetEvent handles GET /api/events/{eventID}.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.get_event", err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleDeleteEvent handles DELETE /api/events/{eventID}.
func (h *EventsHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeError(w, r, Wrap("api.delete_event", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetEventStatus handles PATCH /api/events/{eventID}/status.
func (h *EventsHandler) HandleSetEventStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_event_status"
	var req eventStatusRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.deps.SetEventActive(r.Context(), chi.URLParam(r, "eventID"), *req.IsActive)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleListOrganizerEvents handles GET /api/organizers/{organizerID}/events.
func (h *EventsHandler) HandleListOrganizerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.ListOrganizerEvents(r.Context(), chi.URLParam(r, "organizerID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_organizer_events", err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleListTimeline handles GET /api/events/{eventID}/timeline.
func (h *EventsHandler) HandleListTimeline(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListTimeline(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_timeline", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreateTimeline handles POST /api/events/{eventID}/timeline.
func (h *EventsHandler) HandleCreateTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_timeline"
	var req timelineRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.deps.CreateTimeline(r.Context(), model.Timeline{
		EventID:     chi.URLParam(r, "eventID"),
		Label:       req.Label,
		Description: req.Description,
		Date:        req.Date,
		Status:      model.MilestoneStatus(req.Status),
		Order:       req.Order,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// HandleUpdateTimelineStatus handles PATCH /api/timeline/{timelineID}/status.
func (h *EventsHandler) HandleUpdateTimelineStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_timeline_status"
	var req timelineStatusRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.deps.UpdateTimelineStatus(r.Context(), chi.URLParam(r, "timelineID"), model.MilestoneStatus(req.Status))
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleListAnnouncements handles GET /api/events/{eventID}/announcements.
func (h *EventsHandler) HandleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListAnnouncements(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_announcements", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreateAnnouncement handles POST /api/events/{eventID}/announcements.
func (h *EventsHandler) HandleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_announcement"
	var req announcementRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.deps.CreateAnnouncement(r.Context(), model.Announcement{
		EventID:   chi.URLParam(r, "eventID"),
		Message:   req.Message,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
