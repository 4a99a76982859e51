// Package receipt validates untrusted receipt extraction payloads.
//
// This is the trust boundary between the AI extraction service and the
// rest of the system. The model's output is adversarially steerable, so
// every field is coerced, clamped, or defaulted rather than rejected:
// a partially-correct receipt is still useful to the user. Nothing in
// this package returns an error or panics, whatever the input looks like.
package receipt

import (
	"math"
	"strconv"
	"strings"

	"github.com/splitsies/splitsies/internal/models"
)

const (
	// MaxItems caps how many line items a receipt may carry.
	MaxItems = 100

	// MaxNameLength caps merchant and item names, in runes.
	MaxNameLength = 200

	// MaxQuantity caps a single line item's quantity.
	MaxQuantity = 100

	// DefaultCurrency is used when the source currency is not a
	// three-letter uppercase code.
	DefaultCurrency = "USD"

	// DefaultConfidence is used when the confidence field is present but
	// unreadable. The extraction prompt reserves an explicit 0 for "could
	// not parse", so an unreadable value means unknown, not hopeless.
	DefaultConfidence = 0.8
)

// Parse validates a decoded JSON value into a Receipt.
//
// ok is false only when v is not a JSON object at all; every other
// malformation is absorbed by per-field defaulting. The input is
// typically the result of unmarshaling the extraction service's response
// into an any.
func Parse(v any) (*models.Receipt, bool) {
	obj, isObject := v.(map[string]any)
	if !isObject {
		return nil, false
	}
	r := fromObject(obj)
	return &r, true
}

// ParseSafe validates a decoded JSON value into a Receipt and never
// fails. Inputs that are not JSON objects yield the canonical empty
// receipt with Confidence 0, which callers treat as "unusable".
func ParseSafe(v any) models.Receipt {
	r, ok := Parse(v)
	if !ok {
		return models.Receipt{Currency: DefaultCurrency}
	}
	return *r
}

func fromObject(obj map[string]any) models.Receipt {
	return models.Receipt{
		MerchantName: sanitizeName(obj["merchantName"], ""),
		Items:        coerceItems(obj["items"]),
		Subtotal:     coerceAmount(obj["subtotal"]),
		Tax:          coerceAmount(obj["tax"]),
		Tip:          coerceAmount(obj["tip"]),
		Total:        coerceAmount(obj["total"]),
		Currency:     coerceCurrency(obj["currency"]),
		Confidence:   coerceConfidence(obj["confidence"]),
	}
}

func coerceItems(v any) []models.ReceiptItem {
	arr, ok := v.([]any)
	if !ok {
		return []models.ReceiptItem{}
	}
	if len(arr) > MaxItems {
		arr = arr[:MaxItems]
	}

	items := make([]models.ReceiptItem, 0, len(arr))
	for _, el := range arr {
		// A non-object element is an item with every field missing.
		obj, _ := el.(map[string]any)
		items = append(items, models.ReceiptItem{
			Name:     sanitizeName(obj["name"], "Unknown Item"),
			Price:    coerceAmount(obj["price"]),
			Quantity: coerceQuantity(obj["quantity"]),
		})
	}
	return items
}

// sanitizeName coerces v to a bounded display string: missing or
// non-string values become fallback, then the result is truncated to
// MaxNameLength runes with '<' and '>' stripped so it can never smuggle
// markup downstream.
func sanitizeName(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		s = fallback
	}
	if runes := []rune(s); len(runes) > MaxNameLength {
		s = string(runes[:MaxNameLength])
	}
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// coerceAmount turns v into a non-negative finite number. Negative,
// non-numeric, NaN, and infinite values all collapse to 0.
func coerceAmount(v any) float64 {
	n, ok := toNumber(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func coerceQuantity(v any) int {
	n, ok := toNumber(v)
	if !ok {
		return 1
	}
	q := int(n)
	if q < 1 {
		return 1
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

func coerceCurrency(v any) string {
	s, ok := v.(string)
	if !ok {
		return DefaultCurrency
	}
	s = strings.ToUpper(s)
	if len(s) != 3 {
		return DefaultCurrency
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return DefaultCurrency
		}
	}
	return s
}

func coerceConfidence(v any) float64 {
	n, ok := toNumber(v)
	if !ok {
		return DefaultConfidence
	}
	return math.Min(1, math.Max(0, n))
}

// toNumber accepts JSON numbers and numeric strings. Booleans, objects,
// arrays, and null are not numbers.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
