// Package service orchestrates the receipt parsing pipeline and bill
// session lifecycle over a storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/splitsies/splitsies/internal/calculator"
	"github.com/splitsies/splitsies/internal/llm"
	"github.com/splitsies/splitsies/internal/metrics"
	"github.com/splitsies/splitsies/internal/models"
	"github.com/splitsies/splitsies/internal/receipt"
	"github.com/splitsies/splitsies/internal/session"
	"github.com/splitsies/splitsies/internal/storage"
)

// MaxImageBytes is the largest receipt photo the service accepts.
const MaxImageBytes = 10 * 1024 * 1024

var (
	ErrNoImage       = errors.New("no image provided")
	ErrNotAnImage    = errors.New("invalid file type, expected an image")
	ErrImageTooLarge = errors.New("file too large, maximum size is 10MB")
)

// BillService implements the application operations behind the HTTP API.
type BillService struct {
	store   storage.Store
	llm     llm.Client
	metrics *metrics.Metrics
}

// New creates a BillService. metrics may be nil in tests.
func New(store storage.Store, client llm.Client, m *metrics.Metrics) *BillService {
	return &BillService{store: store, llm: client, metrics: m}
}

// ParseBill runs a receipt photo through the extraction model and the
// validator, returning a bounded Receipt.
//
// Transport failures (bad upload, model unreachable) are errors.
// Malformed model output is not: it degrades to a receipt with
// Confidence 0, which callers surface as "try again or enter items
// manually" (the receipt is still structurally valid).
func (s *BillService) ParseBill(ctx context.Context, image []byte, mimeType string) (models.Receipt, error) {
	start := time.Now()

	if len(image) == 0 {
		s.observeParse("error", start)
		return models.Receipt{}, ErrNoImage
	}
	if !strings.HasPrefix(mimeType, "image/") {
		s.observeParse("error", start)
		return models.Receipt{}, ErrNotAnImage
	}
	if len(image) > MaxImageBytes {
		s.observeParse("error", start)
		return models.Receipt{}, ErrImageTooLarge
	}

	text, err := s.llm.ParseReceipt(ctx, image, mimeType)
	if err != nil {
		s.observeParse("error", start)
		return models.Receipt{}, fmt.Errorf("receipt extraction failed: %w", err)
	}

	payload, ok := llm.ExtractJSON(text)
	if !ok {
		slog.Warn("No JSON object in model response", "response_len", len(text))
	}
	r := receipt.ParseSafe(payload)

	outcome := "ok"
	if !r.Usable() {
		outcome = "unusable"
	}
	s.observeParse(outcome, start)
	if s.metrics != nil {
		s.metrics.ObserveConfidence(r.Confidence)
	}
	slog.Info("Receipt parsed",
		"merchant", r.MerchantName,
		"items", len(r.Items),
		"confidence", r.Confidence,
		"currency", r.Currency,
	)
	return r, nil
}

// CreateSession creates and persists an empty draft session.
func (s *BillService) CreateSession(ctx context.Context, currency string) (*models.BillSession, error) {
	sess := session.New(currency)
	if err := s.store.CreateSession(ctx, &sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &sess, nil
}

// GetSession retrieves a session snapshot.
func (s *BillService) GetSession(ctx context.Context, sessionID string) (*models.BillSession, error) {
	return s.store.GetSession(ctx, sessionID)
}

// DeleteSession removes a session.
func (s *BillService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// ApplyReceipt populates a session from a validated receipt, stamping
// each item with identity and default assignment state.
func (s *BillService) ApplyReceipt(ctx context.Context, sessionID string, r models.Receipt) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.ApplyReceipt(sess, r), nil
	})
}

// UpdateDetails corrects the merchant name and charge amounts.
func (s *BillService) UpdateDetails(ctx context.Context, sessionID, merchantName string, subtotal, tax, tip float64) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.UpdateDetails(sess, merchantName, subtotal, tax, tip), nil
	})
}

// AddItem appends a manually entered item.
func (s *BillService) AddItem(ctx context.Context, sessionID, name string, price float64, quantity int) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		next, _ := session.AddItem(sess, name, price, quantity)
		return next, nil
	})
}

// UpdateItem edits an item's name, price, and quantity.
func (s *BillService) UpdateItem(ctx context.Context, sessionID, itemID, name string, price float64, quantity int) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.UpdateItem(sess, itemID, name, price, quantity)
	})
}

// DeleteItem removes an item.
func (s *BillService) DeleteItem(ctx context.Context, sessionID, itemID string) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.DeleteItem(sess, itemID)
	})
}

// AddParticipant adds a person to the session.
func (s *BillService) AddParticipant(ctx context.Context, sessionID, name string) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		next, _, err := session.AddParticipant(sess, name)
		return next, err
	})
}

// RemoveParticipant removes a person, cascading to item assignments.
func (s *BillService) RemoveParticipant(ctx context.Context, sessionID, participantID string) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.RemoveParticipant(sess, participantID)
	})
}

// AssignItem sets an item's assignee list.
func (s *BillService) AssignItem(ctx context.Context, sessionID, itemID string, participantIDs []string) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, func(sess models.BillSession) (models.BillSession, error) {
		return session.AssignItem(sess, itemID, participantIDs)
	})
}

// Finalize locks in a fully assigned session.
func (s *BillService) Finalize(ctx context.Context, sessionID string) (*models.BillSession, error) {
	return s.mutate(ctx, sessionID, session.Finalize)
}

// SessionSummary is the computed split for a session.
type SessionSummary struct {
	Summaries        []models.PersonSummary
	ShareText        string
	AllItemsAssigned bool
}

// Summary computes the per-person split and share text for a session.
func (s *BillService) Summary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionSummary{
		Summaries:        session.Summaries(*sess),
		ShareText:        session.ShareText(*sess),
		AllItemsAssigned: calculator.AllItemsAssigned(sess.Items),
	}, nil
}

// mutate loads a session, applies a pure state transition, and persists
// the returned snapshot.
func (s *BillService) mutate(ctx context.Context, sessionID string, fn func(models.BillSession) (models.BillSession, error)) (*models.BillSession, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := fn(*sess)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSession(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &next, nil
}

func (s *BillService) observeParse(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveParse(outcome, time.Since(start).Seconds())
	}
}
