package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/splitsies/splitsies/internal/models"
	"github.com/splitsies/splitsies/internal/storage"
)

// fakeLLM returns a canned response or error.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) ParseReceipt(ctx context.Context, image []byte, mimeType string) (string, error) {
	return f.response, f.err
}

// memStore is an in-memory storage.Store for service tests.
type memStore struct {
	sessions map[string]models.BillSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]models.BillSession)}
}

func (m *memStore) CreateSession(ctx context.Context, s *models.BillSession) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *memStore) GetSession(ctx context.Context, id string) (*models.BillSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) UpdateSession(ctx context.Context, s *models.BillSession) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return storage.ErrNotFound
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *memStore) DeleteSession(ctx context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memStore) Close() error { return nil }

const goodResponse = "```json\n" + `{
	"merchantName": "Thai Basil",
	"items": [
		{"name": "Pad Thai", "price": 14.50, "quantity": 1},
		{"name": "Spring Rolls", "price": 6.00, "quantity": 2}
	],
	"subtotal": 26.50,
	"tax": 2.65,
	"tip": 0,
	"total": 29.15,
	"currency": "usd",
	"confidence": 0.92
}` + "\n```"

func TestParseBill(t *testing.T) {
	ctx := context.Background()
	image := []byte("fake-jpeg-bytes")

	tests := []struct {
		name     string
		llm      *fakeLLM
		image    []byte
		mimeType string
		wantErr  error
		validate func(t *testing.T, r models.Receipt)
	}{
		{
			name:     "well-formed response",
			llm:      &fakeLLM{response: goodResponse},
			image:    image,
			mimeType: "image/jpeg",
			validate: func(t *testing.T, r models.Receipt) {
				if r.MerchantName != "Thai Basil" || len(r.Items) != 2 {
					t.Errorf("receipt = %+v", r)
				}
				if r.Currency != "USD" {
					t.Errorf("currency = %q, want USD (uppercased)", r.Currency)
				}
				if !r.Usable() {
					t.Error("expected usable receipt")
				}
			},
		},
		{
			name:     "prose-only response degrades to unusable receipt",
			llm:      &fakeLLM{response: "Sorry, I cannot read this image."},
			image:    image,
			mimeType: "image/png",
			validate: func(t *testing.T, r models.Receipt) {
				if r.Usable() {
					t.Error("expected unusable receipt, not an error")
				}
				if r.Currency != "USD" {
					t.Errorf("currency = %q, want USD", r.Currency)
				}
			},
		},
		{
			name:     "model declines with confidence zero",
			llm:      &fakeLLM{response: `{"items": [], "confidence": 0}`},
			image:    image,
			mimeType: "image/jpeg",
			validate: func(t *testing.T, r models.Receipt) {
				if r.Usable() {
					t.Error("confidence 0 must mean unusable")
				}
			},
		},
		{
			name:     "empty image rejected",
			llm:      &fakeLLM{response: goodResponse},
			image:    nil,
			mimeType: "image/jpeg",
			wantErr:  ErrNoImage,
		},
		{
			name:     "non-image upload rejected",
			llm:      &fakeLLM{response: goodResponse},
			image:    image,
			mimeType: "application/pdf",
			wantErr:  ErrNotAnImage,
		},
		{
			name:     "oversized image rejected",
			llm:      &fakeLLM{response: goodResponse},
			image:    make([]byte, MaxImageBytes+1),
			mimeType: "image/jpeg",
			wantErr:  ErrImageTooLarge,
		},
		{
			name:     "model transport failure is an error",
			llm:      &fakeLLM{err: errors.New("upstream timeout")},
			image:    image,
			mimeType: "image/jpeg",
			wantErr:  errors.New("any"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(newMemStore(), tt.llm, nil)
			r, err := svc.ParseBill(ctx, tt.image, tt.mimeType)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr.Error() != "any" && !errors.Is(err, tt.wantErr) {
					t.Errorf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBill: %v", err)
			}
			tt.validate(t, r)
		})
	}
}

func TestSessionWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemStore(), &fakeLLM{response: goodResponse}, nil)

	sess, err := svc.CreateSession(ctx, "USD")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	r, err := svc.ParseBill(ctx, []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("ParseBill: %v", err)
	}
	sess, err = svc.ApplyReceipt(ctx, sess.ID, r)
	if err != nil {
		t.Fatalf("ApplyReceipt: %v", err)
	}
	if len(sess.Items) != 2 || sess.MerchantName != "Thai Basil" {
		t.Fatalf("session after receipt = %+v", sess)
	}

	sess, err = svc.AddParticipant(ctx, sess.ID, "Alice")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	sess, err = svc.AddParticipant(ctx, sess.ID, "Bob")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	alice, bob := sess.Participants[0], sess.Participants[1]

	// Pad Thai to Alice, Spring Rolls shared.
	if sess, err = svc.AssignItem(ctx, sess.ID, sess.Items[0].ID, []string{alice.ID}); err != nil {
		t.Fatalf("AssignItem: %v", err)
	}
	if sess, err = svc.AssignItem(ctx, sess.ID, sess.Items[1].ID, []string{alice.ID, bob.ID}); err != nil {
		t.Fatalf("AssignItem: %v", err)
	}

	summary, err := svc.Summary(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.AllItemsAssigned {
		t.Error("expected all items assigned")
	}
	if len(summary.Summaries) != 2 {
		t.Fatalf("got %d summaries", len(summary.Summaries))
	}
	// Alice: 14.50 + 12.00/2 = 20.50; Bob: 6.00.
	if math.Abs(summary.Summaries[0].ItemsTotal-20.50) > 0.01 {
		t.Errorf("Alice itemsTotal = %v, want 20.50", summary.Summaries[0].ItemsTotal)
	}
	if math.Abs(summary.Summaries[1].ItemsTotal-6.00) > 0.01 {
		t.Errorf("Bob itemsTotal = %v, want 6.00", summary.Summaries[1].ItemsTotal)
	}
	if summary.ShareText == "" {
		t.Error("expected share text")
	}

	if _, err = svc.Finalize(ctx, sess.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if err := svc.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, sess.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}
