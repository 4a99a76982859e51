package models

// BillStatus tracks a session's progress through the split workflow.
type BillStatus string

const (
	// StatusDraft is a session still being edited.
	StatusDraft BillStatus = "draft"

	// StatusFinalized is a session whose assignments are locked in.
	StatusFinalized BillStatus = "finalized"

	// StatusSettled is a session everyone has paid up on.
	StatusSettled BillStatus = "settled"
)

// BillSession represents one bill being split, from receipt capture
// through to the shareable summary.
//
// Sessions are treated as immutable snapshots: the session package takes
// a BillSession by value and returns a new one, so concurrent readers
// never observe a partial edit.
type BillSession struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// MerchantName is the merchant from the parsed receipt. May be empty.
	MerchantName string

	// Items are the line items being split.
	Items []BillItem

	// Participants are the people splitting the bill.
	Participants []Participant

	// Subtotal, Tax, Tip, and Total are the bill-level amounts, seeded
	// from the parsed receipt and editable by the user. The calculator
	// prefers a subtotal recomputed from Items over the stored Subtotal.
	Subtotal float64
	Tax      float64
	Tip      float64
	Total    float64

	// Currency is the three-letter ISO 4217 code for display.
	Currency string

	// Status is the session's workflow state.
	Status BillStatus
}
