package repository

import (
	"fmt"

	"github.com/okian/hacksphere/internal/domain/model"
)

// Sentinel kinds for repository errors. Each wraps a model kind.
var (
	ErrNotFound        = fmt.Errorf("record %w", model.ErrNotFound)
	ErrNotMember       = fmt.Errorf("member %w", model.ErrNotFound)
	ErrDuplicateMember = fmt.Errorf("member already in team: %w", model.ErrConflict)
	ErrTeamFull        = fmt.Errorf("team is full: %w", model.ErrConflict)
	ErrLeaderRemoval   = fmt.Errorf("team leader cannot be removed: %w", model.ErrConflict)
)

// NotFound reports a missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}
