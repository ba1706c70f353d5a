package timeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors surfaced by Scene and Track mutations.
var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// NotFoundError reports an unknown track or frame id. It unwraps to
// ErrNotFound for errors.Is checks.
type NotFoundError struct {
	Kind string // "track" or "frame"
	ID   uuid.UUID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}
