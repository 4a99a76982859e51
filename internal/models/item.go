package models

// SplitType indicates how an item's cost is divided among its assignees.
type SplitType string

const (
	// SplitIndividual charges the item's full price to its single assignee.
	SplitIndividual SplitType = "individual"

	// SplitShared divides the item's price equally among all assignees.
	SplitShared SplitType = "shared"
)

// BillItem represents a single line item on a bill.
// Items can be shared among multiple participants.
type BillItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the display name of the item (e.g., "Pad Thai", "Beer").
	Name string

	// Price is the pre-tax unit price of this item.
	Price float64

	// Quantity is how many units were ordered. Always in [1, 100].
	Quantity int

	// AssignedTo is the list of participant IDs who split this item.
	// May be empty (unassigned). No duplicates; order is irrelevant.
	AssignedTo []string

	// SplitType is derived from AssignedTo: SplitShared when more than one
	// participant is assigned, SplitIndividual otherwise.
	SplitType SplitType

	// Confidence is the extraction confidence inherited from the parsed
	// receipt, in [0, 1]. Zero for manually created items.
	Confidence float64

	// ManuallyEdited is true once the user has changed the item's name,
	// price, or quantity after parsing.
	ManuallyEdited bool
}

// Total returns the item's full cost (unit price times quantity).
func (i BillItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

// DeriveSplitType returns the split type implied by an assignee list.
// The result is meaningless for unassigned items but defaults to
// SplitIndividual so stored values stay well-formed.
func DeriveSplitType(assignedTo []string) SplitType {
	if len(assignedTo) > 1 {
		return SplitShared
	}
	return SplitIndividual
}
