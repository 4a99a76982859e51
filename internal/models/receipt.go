package models

// ReceiptItem is a single line item as reported by the extraction service,
// after validation. Unlike BillItem it carries no identity or assignment;
// those are stamped on when the receipt is applied to a session.
type ReceiptItem struct {
	// Name is the sanitized item name. At most 200 characters, never
	// contains '<' or '>'.
	Name string

	// Price is the non-negative unit price.
	Price float64

	// Quantity is the unit count, clamped to [1, 100].
	Quantity int
}

// Receipt is the validated, bounded representation of a parsed bill.
//
// A Receipt only comes out of the receipt package, which guarantees every
// field is in range no matter how malformed the extraction response was.
// Subtotal, Tax, Tip, and Total are reported values and are not required
// to reconcile with each other or with the summed item prices; the
// calculator recomputes its own effective subtotal from item state.
type Receipt struct {
	// MerchantName is the sanitized merchant name. May be empty.
	MerchantName string

	// Items holds at most 100 validated line items.
	Items []ReceiptItem

	// Subtotal is the pre-tax amount as reported by the source.
	Subtotal float64

	// Tax is the tax amount as reported by the source.
	Tax float64

	// Tip is the tip amount as reported by the source.
	Tip float64

	// Total is the bottom-line total as reported by the source.
	Total float64

	// Currency is a three-letter uppercase ISO 4217 code. Falls back to
	// "USD" when the source value does not match that shape.
	Currency string

	// Confidence is the extraction confidence in [0, 1]. Zero means the
	// source could not parse the receipt and callers should not use it to
	// auto-populate a session.
	Confidence float64
}

// Usable reports whether the receipt carries enough signal to populate a
// session. A zero confidence is the extraction pipeline's "not a receipt"
// marker.
func (r Receipt) Usable() bool {
	return r.Confidence > 0
}
