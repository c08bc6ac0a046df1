package catalog

import (
	"context"
	"errors"
)

// ErrUnknownMode is returned when a provider has no catalog for a mode.
var ErrUnknownMode = errors.New("unknown test mode")

// Provider supplies the per-mode catalog snapshot. Implementations must
// return data that callers can treat as immutable for the mode session.
type Provider interface {
	ModeData(ctx context.Context, mode TestMode) (*ModeData, error)
}
