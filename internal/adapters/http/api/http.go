// Package api exposes the hacksphere service over JSON/HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/hacksphere/internal/app"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/internal/domain/types"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	EventDependencies
	TeamDependencies
	SubmissionDependencies
	LeaderboardDependencies
	StatsProvider

	Ping(ctx context.Context) error
}

// EventDependencies covers events, their timeline and announcements.
type EventDependencies interface {
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListOrganizerEvents(ctx context.Context, createdBy string) ([]model.Event, error)
	SetEventActive(ctx context.Context, id string, active bool) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CreateTimeline(ctx context.Context, t model.Timeline) (model.Timeline, error)
	ListTimeline(ctx context.Context, eventID string) ([]model.Timeline, error)
	UpdateTimelineStatus(ctx context.Context, id string, status model.MilestoneStatus) (model.Timeline, error)
	CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	ListAnnouncements(ctx context.Context, eventID string) ([]model.Announcement, error)
}

// TeamDependencies covers teams and their members.
type TeamDependencies interface {
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	GetTeam(ctx context.Context, id string) (model.Team, error)
	ListTeams(ctx context.Context, eventID string) ([]model.Team, error)
	ListUserTeams(ctx context.Context, member string) ([]model.Team, error)
	AddTeamMember(ctx context.Context, teamID, member string) (model.Team, error)
	RemoveTeamMember(ctx context.Context, teamID, member string) (model.Team, error)
}

// SubmissionDependencies covers submissions and judge scorecards.
type SubmissionDependencies interface {
	CreateSubmission(ctx context.Context, sub model.Submission) (model.Submission, error)
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	ListSubmissions(ctx context.Context, eventID string) ([]model.Submission, error)
	Explain(sub model.Submission) scoring.Breakdown
	SubmitScore(ctx context.Context, in service.ScoreInput) (service.ScoreResult, error)
	ListScores(ctx context.Context, submissionID string) ([]model.Score, error)
}

// LeaderboardDependencies covers the read side of an event.
type LeaderboardDependencies interface {
	GetLeaderboard(ctx context.Context, eventID string, round int) ([]types.Entry, error)
	GetEventAnalytics(ctx context.Context, eventID string) (types.Analytics, error)
	BuildReport(ctx context.Context, eventID string) ([]byte, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps        Dependencies
	limiter     *JudgeLimiter
	extraRoutes []func(chi.Router)

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	teamsHandler       *TeamsHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.eventsHandler = NewEventsHandler(deps)
	s.teamsHandler = NewTeamsHandler(deps)
	s.submissionsHandler = NewSubmissionsHandler(deps, s.limiter)
	s.leaderboardHandler = NewLeaderboardHandler(deps)
	return s
}

// Handler returns the router serving every route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.eventsHandler.HandleListEvents)
			r.Post("/", s.eventsHandler.HandleCreateEvent)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", s.eventsHandler.HandleGetEvent)
				r.Delete("/", s.eventsHandler.HandleDeleteEvent)
				r.Patch("/status", s.eventsHandler.HandleSetEventStatus)
				r.Get("/timeline", s.eventsHandler.HandleListTimeline)
				r.Post("/timeline", s.eventsHandler.HandleCreateTimeline)
				r.Get("/announcements", s.eventsHandler.HandleListAnnouncements)
				r.Post("/announcements", s.eventsHandler.HandleCreateAnnouncement)
				r.Get("/teams", s.teamsHandler.HandleListTeams)
				r.Post("/teams", s.teamsHandler.HandleCreateTeam)
				r.Get("/submissions", s.submissionsHandler.HandleListSubmissions)
				r.Post("/submissions", s.submissionsHandler.HandleCreateSubmission)
				r.Get("/leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
				r.Get("/analytics", s.leaderboardHandler.HandleGetAnalytics)
				r.Get("/report.xlsx", s.leaderboardHandler.HandleGetReport)
			})
		})
		r.Get("/organizers/{organizerID}/events", s.eventsHandler.HandleListOrganizerEvents)
		r.Patch("/timeline/{timelineID}/status", s.eventsHandler.HandleUpdateTimelineStatus)

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", s.teamsHandler.HandleGetTeam)
			r.Get("/members", s.teamsHandler.HandleListMembers)
			r.Post("/members", s.teamsHandler.HandleAddMember)
			r.Delete("/members/{memberID}", s.teamsHandler.HandleRemoveMember)
		})
		r.Get("/users/{userID}/teams", s.teamsHandler.HandleListUserTeams)

		r.Route("/submissions/{submissionID}", func(r chi.Router) {
			r.Get("/", s.submissionsHandler.HandleGetSubmission)
			r.Get("/scores", s.submissionsHandler.HandleListScores)
			r.Post("/scores", s.submissionsHandler.HandleSubmitScore)
		})
	})

	for _, register := range s.extraRoutes {
		register(r)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into dst and checks its validate tags.
func decode(op string, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := model.Validate(dst); err != nil {
		return Wrap(op, err)
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, model.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}
