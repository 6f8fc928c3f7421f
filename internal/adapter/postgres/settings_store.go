package postgres

import (
	"context"
	"fmt"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsStore reads destination settings from the destination_settings table.
type SettingsStore struct {
	pool *pgxpool.Pool
}

var _ port.SettingsSource = (*SettingsStore)(nil)

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Migrate creates the settings table if it does not exist.
func (s *SettingsStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("creating destination_settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, queryListDestinations)
	if err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning destinations: %w", err)
	}
	return names, nil
}

func (s *SettingsStore) Lookup(ctx context.Context, destination string) (domain.Dict, error) {
	rows, err := s.pool.Query(ctx, queryDestinationSettings, destination)
	if err != nil {
		return nil, fmt.Errorf("querying settings of %q: %w", destination, err)
	}
	settings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([2]string, error) {
		var kv [2]string
		err := row.Scan(&kv[0], &kv[1])
		return kv, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning settings of %q: %w", destination, err)
	}
	if len(settings) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrDestinationNotFound, destination)
	}
	return domain.Dict(settings), nil
}

// Put appends settings for a destination; later rows override earlier ones on lookup.
func (s *SettingsStore) Put(ctx context.Context, destination string, settings domain.Dict) error {
	batch := &pgx.Batch{}
	for _, kv := range settings {
		batch.Queue(`INSERT INTO destination_settings (destination, key, value) VALUES ($1, $2, $3)`,
			destination, kv[0], kv[1])
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("storing settings of %q: %w", destination, err)
	}
	return nil
}
