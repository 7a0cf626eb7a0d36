package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when a signup reuses a registered email.
var ErrEmailTaken = errors.New("email already registered")

// MatchNotFoundError reports which side(s) of a match lookup failed.
// A side fails when no report has that id with the expected kind.
type MatchNotFoundError struct {
	LostID  string
	FoundID string
}

func (e *MatchNotFoundError) Error() string {
	switch {
	case e.LostID != "" && e.FoundID != "":
		return fmt.Sprintf("lost report %q and found report %q not found", e.LostID, e.FoundID)
	case e.LostID != "":
		return fmt.Sprintf("lost report %q not found", e.LostID)
	case e.FoundID != "":
		return fmt.Sprintf("found report %q not found", e.FoundID)
	default:
		return "reports not found"
	}
}

// Is makes MatchNotFoundError satisfy errors.Is(err, ErrNotFound).
func (e *MatchNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
