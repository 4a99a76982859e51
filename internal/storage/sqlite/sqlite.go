// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitsies/splitsies/internal/models"
	"github.com/splitsies/splitsies/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session snapshot to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *models.BillSession) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CreatedAt == 0 {
		sess.CreatedAt = time.Now().Unix()
	}
	if sess.Status == "" {
		sess.Status = models.StatusDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, merchant_name, subtotal, tax, tip, total, currency, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.CreatedAt, sess.MerchantName, sess.Subtotal, sess.Tax, sess.Tip, sess.Total, sess.Currency, string(sess.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertChildren(ctx, tx, sess); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSession replaces an existing session snapshot. Participants,
// items, and assignments are rewritten wholesale; the snapshot is the
// unit of persistence.
func (s *SQLiteStore) UpdateSession(ctx context.Context, sess *models.BillSession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET merchant_name = ?, subtotal = ?, tax = ?, tip = ?, total = ?, currency = ?, status = ?
		 WHERE id = ?`,
		sess.MerchantName, sess.Subtotal, sess.Tax, sess.Tip, sess.Total, sess.Currency, string(sess.Status), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	// Assignments go first via item cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	if err := insertChildren(ctx, tx, sess); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, including items, participants,
// and item assignments, all in stored order.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.BillSession, error) {
	sess := &models.BillSession{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, merchant_name, subtotal, tax, tip, total, currency, status
		 FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.MerchantName, &sess.Subtotal, &sess.Tax, &sess.Tip, &sess.Total, &sess.Currency, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.Status = models.BillStatus(status)

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color FROM participants WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		sess.Participants = append(sess.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, quantity, split_type, confidence, manually_edited
		 FROM items WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.BillItem
		var splitType string
		var edited int
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &splitType, &item.Confidence, &edited); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.SplitType = models.SplitType(splitType)
		item.ManuallyEdited = edited != 0

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant_id FROM item_assignments WHERE item_id = ? ORDER BY participant_id",
			item.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var pid string
			if err := assignRows.Scan(&pid); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, pid)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		sess.Items = append(sess.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return sess, nil
}

// DeleteSession removes a session; items, participants, and assignments
// go with it via foreign key cascades.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// insertChildren writes a session's participants, items, and assignments
// inside an open transaction.
func insertChildren(ctx context.Context, tx *sql.Tx, sess *models.BillSession) error {
	for i, p := range sess.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, session_id, name, color, position) VALUES (?, ?, ?, ?, ?)",
			p.ID, sess.ID, p.Name, p.Color, i,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range sess.Items {
		item := &sess.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		edited := 0
		if item.ManuallyEdited {
			edited = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, session_id, name, price, quantity, split_type, confidence, manually_edited, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, sess.ID, item.Name, item.Price, item.Quantity, string(item.SplitType), item.Confidence, edited, i,
		); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, pid := range item.AssignedTo {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, participant_id) VALUES (?, ?)",
				item.ID, pid,
			); err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}
