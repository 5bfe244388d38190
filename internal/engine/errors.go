package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/StairCut/internal/model"
)

var (
	// ErrNoValidPlankSpec means a piece type has pieces but no plank that can hold them.
	ErrNoValidPlankSpec = errors.New("no valid plank spec")
	// ErrInvalidConstraints means kerf or safety margin is negative.
	ErrInvalidConstraints = errors.New("invalid cutting constraints")
	// ErrDuplicateStep means two measurements share a step number, so their
	// pieces would share an id.
	ErrDuplicateStep = errors.New("duplicate step number")
)

// ConfigurationError aborts a run before any packing starts.
type ConfigurationError struct {
	PieceType model.PieceType
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	if e.PieceType != "" {
		return fmt.Sprintf("configuration error (%s): %s", e.PieceType, e.Reason)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
