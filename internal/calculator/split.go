// Package calculator computes per-person bill splits.
//
// All functions are pure: they never mutate their inputs, never touch
// shared state, and never return errors or panic. Outputs are exact
// (unrounded) floats so recomputing over the same snapshot is idempotent;
// rounding for display is the caller's concern.
package calculator

import "github.com/splitsies/splitsies/internal/models"

// CalculateSplits computes how much each participant owes, including
// proportional tax and tip.
//
// Each assigned item contributes its full price to its single assignee,
// or an equal fraction to every assignee when shared. Tax and tip are
// prorated by each person's fraction of the effective subtotal, which is
// recomputed from current item state (items may have been edited after
// parsing); the stored subtotal is only a fallback when there are no
// priced items.
//
// Unassigned items still count toward the effective subtotal, so they
// dilute everyone's tax/tip share without being charged to anyone.
// Callers that want every cent accounted for should gate on
// AllItemsAssigned before finalizing.
//
// One summary is returned per participant, in input order.
func CalculateSplits(
	items []models.BillItem,
	participants []models.Participant,
	subtotal, tax, tip float64,
) []models.PersonSummary {
	effectiveSubtotal := SubtotalFromItems(items)
	if effectiveSubtotal == 0 {
		effectiveSubtotal = subtotal
	}

	summaries := make([]models.PersonSummary, 0, len(participants))
	for _, p := range participants {
		var assigned []models.BillItem
		itemsTotal := 0.0

		for _, item := range items {
			if !assignedTo(item, p.ID) {
				continue
			}
			assigned = append(assigned, item)

			if item.SplitType == models.SplitShared {
				// Equal fraction for every assignee, present or not.
				itemsTotal += item.Total() / float64(len(item.AssignedTo))
			} else {
				itemsTotal += item.Total()
			}
		}

		personalShare := 0.0
		if effectiveSubtotal > 0 {
			personalShare = itemsTotal / effectiveSubtotal
		}

		taxShare := tax * personalShare
		tipShare := tip * personalShare

		summaries = append(summaries, models.PersonSummary{
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			ItemsTotal:      itemsTotal,
			TaxShare:        taxShare,
			TipShare:        tipShare,
			GrandTotal:      itemsTotal + taxShare + tipShare,
			Items:           assigned,
		})
	}

	return summaries
}

// SubtotalFromItems returns the sum of price times quantity over all
// items, assigned or not. This is the same pool CalculateSplits prorates
// tax and tip against.
func SubtotalFromItems(items []models.BillItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.Total()
	}
	return sum
}

// AllItemsAssigned reports whether every item has at least one assignee.
// The calculator does not enforce this; callers use it to gate
// finalization.
func AllItemsAssigned(items []models.BillItem) bool {
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			return false
		}
	}
	return true
}

// EqualSplit returns the per-person amount when a total is divided evenly.
// Returns 0 for zero participants.
func EqualSplit(total float64, participantCount int) float64 {
	if participantCount == 0 {
		return 0
	}
	return total / float64(participantCount)
}

func assignedTo(item models.BillItem, participantID string) bool {
	for _, id := range item.AssignedTo {
		if id == participantID {
			return true
		}
	}
	return false
}
