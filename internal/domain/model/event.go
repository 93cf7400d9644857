// Package model contains domain models passed between layers.
package model

import "time"

// EventMode is how an event is attended.
type EventMode string

// Event modes.
const (
	ModeOnline  EventMode = "online"
	ModeOffline EventMode = "offline"
	ModeHybrid  EventMode = "hybrid"
)

// Event is a hackathon. It owns its timeline, teams, submissions and
// announcements; deleting it removes all of them.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"notblank,max=200"`
	Theme       string    `json:"theme,omitempty" validate:"max=200"`
	Description string    `json:"description,omitempty"`
	Mode        EventMode `json:"mode" validate:"oneof=online offline hybrid"`
	Tracks      []string  `json:"tracks"`
	Rules       []string  `json:"rules"`
	Prizes      []string  `json:"prizes"`
	Sponsors    []string  `json:"sponsors"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedBy   string    `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate applies defaults and checks the event's fields.
func (e *Event) Validate() error {
	if e.Mode == "" {
		e.Mode = ModeOnline
	}
	if err := Validate(e); err != nil {
		return err
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return Invalid("end_date", "must not be before start_date")
	}
	return nil
}

// MilestoneStatus is the progress state of a timeline milestone.
type MilestoneStatus string

// Milestone statuses.
const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneActive    MilestoneStatus = "active"
	MilestoneCompleted MilestoneStatus = "completed"
)

// Valid reports whether s is a known status.
func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneActive, MilestoneCompleted:
		return true
	}
	return false
}

// Timeline is one milestone of an event schedule, listed by Order.
type Timeline struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id" validate:"notblank"`
	Label       string          `json:"label" validate:"notblank,max=200"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	Status      MilestoneStatus `json:"status" validate:"oneof=pending active completed"`
	Order       int             `json:"order" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate applies defaults and checks the milestone's fields.
func (t *Timeline) Validate() error {
	if t.Status == "" {
		t.Status = MilestonePending
	}
	return Validate(t)
}

// Announcement is an organizer broadcast to an event's participants.
type Announcement struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id" validate:"notblank"`
	Message   string    `json:"message" validate:"notblank,max=2000"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the announcement's fields.
func (a *Announcement) Validate() error {
	return Validate(a)
}
