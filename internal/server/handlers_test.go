package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/splitsies/splitsies/internal/models"
	"github.com/splitsies/splitsies/internal/service"
	"github.com/splitsies/splitsies/internal/storage"
)

type stubLLM struct{ response string }

func (s *stubLLM) ParseReceipt(ctx context.Context, image []byte, mimeType string) (string, error) {
	return s.response, nil
}

type stubStore struct {
	sessions map[string]models.BillSession
}

func (m *stubStore) CreateSession(ctx context.Context, s *models.BillSession) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *stubStore) GetSession(ctx context.Context, id string) (*models.BillSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &s, nil
}

func (m *stubStore) UpdateSession(ctx context.Context, s *models.BillSession) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return storage.ErrNotFound
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *stubStore) DeleteSession(ctx context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *stubStore) Close() error { return nil }

func newTestRouter(llmResponse string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := &stubStore{sessions: make(map[string]models.BillSession)}
	svc := service.New(store, &stubLLM{response: llmResponse}, nil)
	return New(svc, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionEndpoints(t *testing.T) {
	router := newTestRouter("")

	// Create a session.
	w := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]string{"currency": "EUR"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	var sess sessionDTO
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.ID == "" || sess.Currency != "EUR" || sess.Status != "draft" {
		t.Fatalf("session = %+v", sess)
	}

	base := "/api/sessions/" + sess.ID

	// Add participants and an item, then assign.
	for _, name := range []string{"Alice", "Bob"} {
		if w := doJSON(t, router, http.MethodPost, base+"/participants", map[string]string{"name": name}); w.Code != http.StatusCreated {
			t.Fatalf("add participant %s: status %d", name, w.Code)
		}
	}
	w = doJSON(t, router, http.MethodPost, base+"/items", map[string]any{"name": "Pizza", "price": 20.0, "quantity": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: status %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	itemID := sess.Items[0].ID
	pids := []string{sess.Participants[0].ID, sess.Participants[1].ID}

	w = doJSON(t, router, http.MethodPut, base+"/items/"+itemID+"/assignees", map[string]any{"participantIds": pids})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: status %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.Items[0].SplitType != "shared" {
		t.Errorf("splitType = %q, want shared", sess.Items[0].SplitType)
	}

	// Summary splits the pizza evenly.
	w = doJSON(t, router, http.MethodGet, base+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d", w.Code)
	}
	var summary struct {
		Summaries        []summaryDTO `json:"summaries"`
		ShareText        string       `json:"shareText"`
		AllItemsAssigned bool         `json:"allItemsAssigned"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !summary.AllItemsAssigned {
		t.Error("expected allItemsAssigned")
	}
	if len(summary.Summaries) != 2 || summary.Summaries[0].ItemsTotal != 10.0 {
		t.Errorf("summaries = %+v", summary.Summaries)
	}
	if !strings.Contains(summary.ShareText, "Alice") {
		t.Errorf("share text missing participant: %q", summary.ShareText)
	}

	// Text format.
	req := httptest.NewRequest(http.MethodGet, base+"/summary?format=text", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Splitsies") {
		t.Errorf("text summary: status %d, body %q", rec.Code, rec.Body.String())
	}

	// Duplicate participant name is a 400.
	if w := doJSON(t, router, http.MethodPost, base+"/participants", map[string]string{"name": "alice"}); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate participant: status %d, want 400", w.Code)
	}

	// Unknown session is a 404.
	if w := doJSON(t, router, http.MethodGet, "/api/sessions/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown session: status %d, want 404", w.Code)
	}

	// Delete.
	if w := doJSON(t, router, http.MethodDelete, base, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d, want 204", w.Code)
	}
}

func TestParseBillEndpoint(t *testing.T) {
	router := newTestRouter(`{"merchantName": "Cafe", "items": [{"name": "Latte", "price": 4.5}], "confidence": 0.9, "currency": "USD"}`)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="receipt.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprint(part, "fake-jpeg-bytes")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/parse-bill", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var r receiptDTO
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if r.MerchantName != "Cafe" || len(r.Items) != 1 || !r.Usable {
		t.Errorf("receipt = %+v", r)
	}
	if r.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want defaulted 1", r.Items[0].Quantity)
	}
}

func TestParseBillRejectsMissingImage(t *testing.T) {
	router := newTestRouter("{}")

	w := doJSON(t, router, http.MethodPost, "/api/parse-bill", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}
