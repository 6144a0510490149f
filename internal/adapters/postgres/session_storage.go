package postgres

import (
	"context"
	"errors"
	"fmt"

	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionStorageBackend хранит session storage в таблице session_storage,
// чтобы состояние near-me переживало рестарт инстанса.
type SessionStorageBackend struct {
	pool *pgxpool.Pool
}

func NewSessionStorageBackend(pool *pgxpool.Pool) (*SessionStorageBackend, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &SessionStorageBackend{pool: pool}, nil
}

func (b *SessionStorageBackend) Scope(sessionID uuid.UUID) port.SessionStoragePort {
	return &sessionStorage{pool: b.pool, sessionID: sessionID}
}

func (b *SessionStorageBackend) Purge(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM session_storage WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to purge session %s: %w", sessionID, err)
	}
	return nil
}

type sessionStorage struct {
	pool      *pgxpool.Pool
	sessionID uuid.UUID
}

func (s *sessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM session_storage WHERE session_id = $1 AND key = $2`, s.sessionID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sessionStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		s.sessionID, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write session key %q: %w", key, err)
	}
	return nil
}

func (s *sessionStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM session_storage WHERE session_id = $1 AND key = $2`, s.sessionID, key); err != nil {
		return fmt.Errorf("failed to remove session key %q: %w", key, err)
	}
	return nil
}
