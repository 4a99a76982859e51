// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitsies/splitsies/internal/models"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for bill session storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Sessions are stored as whole snapshots: the service layer applies pure
// state transitions and persists the result, so the store never needs
// partial updates.
type Store interface {
	// CreateSession persists a new session. ID and CreatedAt are
	// populated if unset.
	CreateSession(ctx context.Context, s *models.BillSession) error

	// GetSession retrieves a session by its ID.
	// Returns ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.BillSession, error)

	// UpdateSession replaces an existing session snapshot.
	// Returns ErrNotFound if the session does not exist.
	UpdateSession(ctx context.Context, s *models.BillSession) error

	// DeleteSession removes a session and everything it owns.
	// Returns ErrNotFound if the session does not exist.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}
