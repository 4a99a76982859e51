package models

// PersonSummary represents one participant's calculated share of a bill.
// This is the output of the split calculation algorithm.
type PersonSummary struct {
	// ParticipantID is the ID of the person, echoed from the input.
	ParticipantID string

	// ParticipantName is the display name, echoed from the input.
	ParticipantName string

	// ItemsTotal is the sum of this person's share of assigned items.
	// Shared items contribute their price divided by the assignee count.
	ItemsTotal float64

	// TaxShare is this person's proportional share of the bill's tax.
	TaxShare float64

	// TipShare is this person's proportional share of the bill's tip.
	TipShare float64

	// GrandTotal is the final amount this person owes
	// (ItemsTotal + TaxShare + TipShare).
	GrandTotal float64

	// Items are the items assigned to this person, in full, so callers
	// can show who else shares each item. Shared items appear in every
	// assignee's summary.
	Items []BillItem
}
