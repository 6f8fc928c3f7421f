package port

import (
	"context"

	"github.com/guillermoBallester/chsink/internal/core/domain"
)

// SettingsSource looks up raw settings of named destinations.
// Lookup returns domain.ErrDestinationNotFound for unknown names.
type SettingsSource interface {
	List(ctx context.Context) ([]string, error)
	Lookup(ctx context.Context, destination string) (domain.Dict, error)
}
