package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/hacksphere/internal/app"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/pkg/metrics"
)

// SubmissionsHandler handles submissions and judge scorecards.
type SubmissionsHandler struct {
	deps    SubmissionDependencies
	limiter *JudgeLimiter
}

// NewSubmissionsHandler creates a new submissions handler. A nil limiter
// leaves score writes unthrottled.
func NewSubmissionsHandler(deps SubmissionDependencies, limiter *JudgeLimiter) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps, limiter: limiter}
}

// submissionRequest carries the fields a participant may set. A client
// heuristic score is not accepted; the server computes it.
type submissionRequest struct {
	TeamID      string   `json:"team_id"`
	SubmittedBy string   `json:"submitted_by"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	RepoURL     string   `json:"repo_url"`
	VideoURL    string   `json:"video_url"`
	Track       string   `json:"track"`
	Tags        []string `json:"tags"`
}

// scoreRequest is a judge scorecard. A client total is not accepted; it is
// always the sum of the categories.
type scoreRequest struct {
	JudgeID    string `json:"judge_id" validate:"required"`
	Round      int    `json:"round" validate:"gte=0"`
	Innovation int    `json:"innovation"`
	Technical  int    `json:"technical"`
	Design     int    `json:"design"`
	Impact     int    `json:"impact"`
	Feedback   string `json:"feedback"`
}

type submissionResponse struct {
	model.Submission
	Insights scoring.Breakdown `json:"insights"`
}

type scoreResponse struct {
	Score    model.Score `json:"score"`
	Replaced bool        `json:"replaced"`
}

// HandleListSubmissions handles GET /api/events/{eventID}/submissions.
func (h *SubmissionsHandler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.deps.ListSubmissions(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_submissions", err))
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleCreateSubmission handles POST /api/events/{eventID}/submissions.
func (h *SubmissionsHandler) HandleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_submission"
	var req submissionRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.deps.CreateSubmission(r.Context(), model.Submission{
		EventID:     chi.URLParam(r, "eventID"),
		TeamID:      req.TeamID,
		SubmittedBy: req.SubmittedBy,
		Title:       req.Title,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		VideoURL:    req.VideoURL,
		Track:       req.Track,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// HandleGetSubmission handles GET /api/submissions/{submissionID}.
func (h *SubmissionsHandler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.deps.GetSubmission(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeError(w, r, Wrap("api.get_submission", err))
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{Submission: sub, Insights: h.deps.Explain(sub)})
}

// HandleListScores handles GET /api/submissions/{submissionID}/scores.
func (h *SubmissionsHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.deps.ListScores(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeError(w, r, Wrap("api.list_scores", err))
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleSubmitScore handles POST /api/submissions/{submissionID}/scores.
// A new scorecard answers 201, a replaced one 200.
func (h *SubmissionsHandler) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_score"
	var req scoreRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(req.JudgeID) {
		metrics.RecordJudgeRateLimited()
		writeError(w, r, NewKind(op, ErrRateLimited))
		return
	}
	res, err := h.deps.SubmitScore(r.Context(), service.ScoreInput{
		SubmissionID: chi.URLParam(r, "submissionID"),
		JudgeID:      req.JudgeID,
		Round:        req.Round,
		SubScores: model.SubScores{
			Innovation: req.Innovation,
			Technical:  req.Technical,
			Design:     req.Design,
			Impact:     req.Impact,
		},
		Feedback: req.Feedback,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if res.Replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, scoreResponse{Score: res.Score, Replaced: res.Replaced})
}
