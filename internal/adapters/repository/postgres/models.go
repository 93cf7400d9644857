package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/okian/hacksphere/internal/domain/model"
)

type eventRow struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          string    `bun:"id,pk"`
	Title       string    `bun:"title,notnull"`
	Theme       string    `bun:"theme"`
	Description string    `bun:"description"`
	Mode        string    `bun:"mode,notnull"`
	Tracks      []string  `bun:"tracks,array"`
	Rules       []string  `bun:"rules,array"`
	Prizes      []string  `bun:"prizes,array"`
	Sponsors    []string  `bun:"sponsors,array"`
	StartDate   time.Time `bun:"start_date,nullzero"`
	EndDate     time.Time `bun:"end_date,nullzero"`
	CreatedBy   string    `bun:"created_by"`
	IsActive    bool      `bun:"is_active,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toEventRow(e *model.Event) *eventRow {
	return &eventRow{
		ID:          e.ID,
		Title:       e.Title,
		Theme:       e.Theme,
		Description: e.Description,
		Mode:        string(e.Mode),
		Tracks:      nonNil(e.Tracks),
		Rules:       nonNil(e.Rules),
		Prizes:      nonNil(e.Prizes),
		Sponsors:    nonNil(e.Sponsors),
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedBy:   e.CreatedBy,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
	}
}

func (r *eventRow) toModel() model.Event {
	return model.Event{
		ID:          r.ID,
		Title:       r.Title,
		Theme:       r.Theme,
		Description: r.Description,
		Mode:        model.EventMode(r.Mode),
		Tracks:      nonNil(r.Tracks),
		Rules:       nonNil(r.Rules),
		Prizes:      nonNil(r.Prizes),
		Sponsors:    nonNil(r.Sponsors),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		CreatedBy:   r.CreatedBy,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

type timelineRow struct {
	bun.BaseModel `bun:"table:timeline,alias:tl"`

	ID          string    `bun:"id,pk"`
	EventID     string    `bun:"event_id,notnull"`
	Label       string    `bun:"label,notnull"`
	Description string    `bun:"description"`
	Date        time.Time `bun:"date,nullzero"`
	Status      string    `bun:"status,notnull"`
	Order       int       `bun:"sort_order,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toTimelineRow(t *model.Timeline) *timelineRow {
	return &timelineRow{
		ID:          t.ID,
		EventID:     t.EventID,
		Label:       t.Label,
		Description: t.Description,
		Date:        t.Date,
		Status:      string(t.Status),
		Order:       t.Order,
		CreatedAt:   t.CreatedAt,
	}
}

func (r *timelineRow) toModel() model.Timeline {
	return model.Timeline{
		ID:          r.ID,
		EventID:     r.EventID,
		Label:       r.Label,
		Description: r.Description,
		Date:        r.Date,
		Status:      model.MilestoneStatus(r.Status),
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
	}
}

type teamRow struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID         string    `bun:"id,pk"`
	EventID    string    `bun:"event_id,notnull"`
	Name       string    `bun:"name,notnull"`
	LeaderID   string    `bun:"leader_id,notnull"`
	Members    []string  `bun:"members,array"`
	MaxMembers int       `bun:"max_members,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toTeamRow(t *model.Team) *teamRow {
	return &teamRow{
		ID:         t.ID,
		EventID:    t.EventID,
		Name:       t.Name,
		LeaderID:   t.LeaderID,
		Members:    nonNil(t.Members),
		MaxMembers: t.MaxMembers,
		CreatedAt:  t.CreatedAt,
	}
}

func (r *teamRow) toModel() model.Team {
	return model.Team{
		ID:         r.ID,
		EventID:    r.EventID,
		Name:       r.Name,
		LeaderID:   r.LeaderID,
		Members:    nonNil(r.Members),
		MaxMembers: r.MaxMembers,
		CreatedAt:  r.CreatedAt,
	}
}

type submissionRow struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID             string    `bun:"id,pk"`
	EventID        string    `bun:"event_id,notnull"`
	TeamID         string    `bun:"team_id"`
	SubmittedBy    string    `bun:"submitted_by"`
	Title          string    `bun:"title,notnull"`
	Description    string    `bun:"description,notnull"`
	RepoURL        string    `bun:"repo_url"`
	VideoURL       string    `bun:"video_url"`
	Track          string    `bun:"track"`
	Tags           []string  `bun:"tags,array"`
	HeuristicScore int       `bun:"heuristic_score,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toSubmissionRow(s *model.Submission) *submissionRow {
	return &submissionRow{
		ID:             s.ID,
		EventID:        s.EventID,
		TeamID:         s.TeamID,
		SubmittedBy:    s.SubmittedBy,
		Title:          s.Title,
		Description:    s.Description,
		RepoURL:        s.RepoURL,
		VideoURL:       s.VideoURL,
		Track:          s.Track,
		Tags:           nonNil(s.Tags),
		HeuristicScore: s.HeuristicScore,
		CreatedAt:      s.CreatedAt,
	}
}

func (r *submissionRow) toModel() model.Submission {
	return model.Submission{
		ID:             r.ID,
		EventID:        r.EventID,
		TeamID:         r.TeamID,
		SubmittedBy:    r.SubmittedBy,
		Title:          r.Title,
		Description:    r.Description,
		RepoURL:        r.RepoURL,
		VideoURL:       r.VideoURL,
		Track:          r.Track,
		Tags:           nonNil(r.Tags),
		HeuristicScore: r.HeuristicScore,
		CreatedAt:      r.CreatedAt,
	}
}

type scoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:sc"`

	ID           string    `bun:"id,pk"`
	SubmissionID string    `bun:"submission_id,notnull"`
	EventID      string    `bun:"event_id,notnull"`
	JudgeID      string    `bun:"judge_id,notnull"`
	Round        int       `bun:"round,notnull"`
	Innovation   int       `bun:"innovation,notnull"`
	Technical    int       `bun:"technical,notnull"`
	Design       int       `bun:"design,notnull"`
	Impact       int       `bun:"impact,notnull"`
	Total        int       `bun:"total,notnull"`
	Feedback     string    `bun:"feedback"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toScoreRow(s *model.Score) *scoreRow {
	return &scoreRow{
		ID:           s.ID,
		SubmissionID: s.SubmissionID,
		EventID:      s.EventID,
		JudgeID:      s.JudgeID,
		Round:        s.Round,
		Innovation:   s.Innovation,
		Technical:    s.Technical,
		Design:       s.Design,
		Impact:       s.Impact,
		Total:        s.Total,
		Feedback:     s.Feedback,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r *scoreRow) toModel() model.Score {
	return model.Score{
		ID:           r.ID,
		SubmissionID: r.SubmissionID,
		EventID:      r.EventID,
		JudgeID:      r.JudgeID,
		Round:        r.Round,
		SubScores: model.SubScores{
			Innovation: r.Innovation,
			Technical:  r.Technical,
			Design:     r.Design,
			Impact:     r.Impact,
		},
		Total:     r.Total,
		Feedback:  r.Feedback,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type announcementRow struct {
	bun.BaseModel `bun:"table:announcements,alias:a"`

	ID        string    `bun:"id,pk"`
	EventID   string    `bun:"event_id,notnull"`
	Message   string    `bun:"message,notnull"`
	CreatedBy string    `bun:"created_by"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toAnnouncementRow(a *model.Announcement) *announcementRow {
	return &announcementRow{
		ID:        a.ID,
		EventID:   a.EventID,
		Message:   a.Message,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

func (r *announcementRow) toModel() model.Announcement {
	return model.Announcement{
		ID:        r.ID,
		EventID:   r.EventID,
		Message:   r.Message,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
