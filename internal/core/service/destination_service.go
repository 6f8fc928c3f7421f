package service

import (
	"context"
	"fmt"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/port"
)

// DestinationService resolves named destinations through an optional SettingsSource.
type DestinationService struct {
	source port.SettingsSource
}

func NewDestinationService(source port.SettingsSource) *DestinationService {
	return &DestinationService{source: source}
}

func (s *DestinationService) List(ctx context.Context) ([]string, error) {
	if s.source == nil {
		return []string{}, nil
	}
	return s.source.List(ctx)
}

func (s *DestinationService) Settings(ctx context.Context, name string) (domain.Dict, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: %q (no destination source configured)", domain.ErrDestinationNotFound, name)
	}
	return s.source.Lookup(ctx, name)
}

// Resolve looks up and validates a named destination.
func (s *DestinationService) Resolve(ctx context.Context, name string) (domain.Settings, error) {
	raw, err := s.Settings(ctx, name)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := domain.ResolveSettings(raw)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("destination %q: %w", name, err)
	}
	return settings, nil
}
