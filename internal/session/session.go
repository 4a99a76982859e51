// Package session holds the pure state transitions for a bill session.
//
// The original workflow kept participants and items in a mutable store;
// here every operation takes a BillSession snapshot by value and returns
// a new one, leaving the input untouched. The caller (the service layer)
// owns persistence and propagation of the returned snapshot, so these
// functions need no locking and are trivially testable.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/splitsies/splitsies/internal/calculator"
	"github.com/splitsies/splitsies/internal/models"
)

var (
	// ErrEmptyName is returned when a participant name is blank.
	ErrEmptyName = errors.New("participant name must not be empty")

	// ErrDuplicateName is returned when a participant name already exists
	// in the session (compared case-insensitively).
	ErrDuplicateName = errors.New("participant name already taken")

	// ErrItemNotFound is returned when an item ID is not in the session.
	ErrItemNotFound = errors.New("item not found")

	// ErrParticipantNotFound is returned when a participant ID is not in
	// the session.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrUnassignedItems is returned when finalizing a session that still
	// has items nobody claimed.
	ErrUnassignedItems = errors.New("all items must be assigned before finalizing")
)

// New creates an empty draft session with a generated ID.
func New(currency string) models.BillSession {
	if currency == "" {
		currency = "USD"
	}
	return models.BillSession{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().Unix(),
		Currency:  currency,
		Status:    models.StatusDraft,
	}
}

// ApplyReceipt populates a session from a validated receipt. Each receipt
// item is stamped with a fresh ID, an empty assignment, and an individual
// split type; the receipt's confidence is carried onto every item so the
// review screen can flag shaky parses.
func ApplyReceipt(s models.BillSession, r models.Receipt) models.BillSession {
	items := make([]models.BillItem, 0, len(r.Items))
	for _, ri := range r.Items {
		items = append(items, models.BillItem{
			ID:             uuid.New().String(),
			Name:           ri.Name,
			Price:          ri.Price,
			Quantity:       ri.Quantity,
			AssignedTo:     []string{},
			SplitType:      models.SplitIndividual,
			Confidence:     r.Confidence,
			ManuallyEdited: false,
		})
	}

	s.MerchantName = r.MerchantName
	s.Items = items
	s.Subtotal = r.Subtotal
	s.Tax = r.Tax
	s.Tip = r.Tip
	s.Total = r.Total
	s.Currency = r.Currency
	return s
}

// UpdateDetails corrects the merchant name and the charge amounts when
// the extraction got them wrong. The total is recomputed rather than
// taken from the caller so the three charges stay consistent.
func UpdateDetails(s models.BillSession, merchantName string, subtotal, tax, tip float64) models.BillSession {
	s.MerchantName = merchantName
	s.Subtotal = subtotal
	s.Tax = tax
	s.Tip = tip
	s.Total = subtotal + tax + tip
	return s
}

// AddItem appends a manually created item and returns the new snapshot.
func AddItem(s models.BillSession, name string, price float64, quantity int) (models.BillSession, models.BillItem) {
	if quantity < 1 {
		quantity = 1
	}
	item := models.BillItem{
		ID:             uuid.New().String(),
		Name:           name,
		Price:          price,
		Quantity:       quantity,
		AssignedTo:     []string{},
		SplitType:      models.SplitIndividual,
		ManuallyEdited: true,
	}
	s.Items = append(copyItems(s.Items), item)
	return s, item
}

// UpdateItem replaces an item's name, price, and quantity, marking it as
// manually edited. Assignments are preserved.
func UpdateItem(s models.BillSession, itemID, name string, price float64, quantity int) (models.BillSession, error) {
	items := copyItems(s.Items)
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		items[i].Name = name
		items[i].Price = price
		if quantity >= 1 {
			items[i].Quantity = quantity
		}
		items[i].ManuallyEdited = true
		s.Items = items
		return s, nil
	}
	return s, ErrItemNotFound
}

// DeleteItem removes an item from the session.
func DeleteItem(s models.BillSession, itemID string) (models.BillSession, error) {
	items := copyItems(s.Items)
	for i := range items {
		if items[i].ID == itemID {
			s.Items = append(items[:i], items[i+1:]...)
			return s, nil
		}
	}
	return s, ErrItemNotFound
}

// AddParticipant adds a person to the session. Names must be non-empty
// and unique, compared case-insensitively. The avatar color is derived
// from the name so the same person always gets the same color.
func AddParticipant(s models.BillSession, name string) (models.BillSession, models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, models.Participant{}, ErrEmptyName
	}
	for _, p := range s.Participants {
		if strings.EqualFold(p.Name, name) {
			return s, models.Participant{}, ErrDuplicateName
		}
	}

	p := models.Participant{
		ID:    uuid.New().String(),
		Name:  name,
		Color: nameColor(name),
	}
	s.Participants = append(copyParticipants(s.Participants), p)
	return s, p, nil
}

// RemoveParticipant removes a person and cascades: their ID is stripped
// from every item's assignment list and each affected item's split type
// is re-derived from the remaining assignees.
func RemoveParticipant(s models.BillSession, participantID string) (models.BillSession, error) {
	found := false
	participants := make([]models.Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.ID == participantID {
			found = true
			continue
		}
		participants = append(participants, p)
	}
	if !found {
		return s, ErrParticipantNotFound
	}

	items := copyItems(s.Items)
	for i := range items {
		remaining := make([]string, 0, len(items[i].AssignedTo))
		for _, id := range items[i].AssignedTo {
			if id != participantID {
				remaining = append(remaining, id)
			}
		}
		items[i].AssignedTo = remaining
		items[i].SplitType = models.DeriveSplitType(remaining)
	}

	s.Participants = participants
	s.Items = items
	return s, nil
}

// AssignItem sets an item's assignee list. Duplicate IDs are collapsed,
// IDs that do not match a session participant are dropped, and the split
// type is re-derived.
func AssignItem(s models.BillSession, itemID string, participantIDs []string) (models.BillSession, error) {
	known := make(map[string]bool, len(s.Participants))
	for _, p := range s.Participants {
		known[p.ID] = true
	}

	assigned := make([]string, 0, len(participantIDs))
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if known[id] && !seen[id] {
			assigned = append(assigned, id)
			seen[id] = true
		}
	}

	items := copyItems(s.Items)
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		items[i].AssignedTo = assigned
		items[i].SplitType = models.DeriveSplitType(assigned)
		s.Items = items
		return s, nil
	}
	return s, ErrItemNotFound
}

// Finalize moves a draft session to finalized. Every item must have at
// least one assignee, otherwise part of the bill would be charged to
// nobody.
func Finalize(s models.BillSession) (models.BillSession, error) {
	if !calculator.AllItemsAssigned(s.Items) {
		return s, ErrUnassignedItems
	}
	s.Status = models.StatusFinalized
	return s, nil
}

// Summaries computes the per-person split for the current snapshot.
func Summaries(s models.BillSession) []models.PersonSummary {
	return calculator.CalculateSplits(s.Items, s.Participants, s.Subtotal, s.Tax, s.Tip)
}

func copyItems(items []models.BillItem) []models.BillItem {
	out := make([]models.BillItem, len(items))
	copy(out, items)
	return out
}

func copyParticipants(participants []models.Participant) []models.Participant {
	out := make([]models.Participant, len(participants))
	copy(out, participants)
	return out
}
