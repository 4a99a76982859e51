package session

import (
	"fmt"
	"strings"

	"github.com/splitsies/splitsies/internal/models"
)

// ShareText renders a session's split as plain text suitable for pasting
// into a group chat. Amounts are rounded to two decimals here and only
// here; the underlying summaries stay exact.
func ShareText(s models.BillSession) string {
	summaries := Summaries(s)

	var b strings.Builder
	b.WriteString("Splitsies Bill Split\n")
	if s.MerchantName != "" {
		fmt.Fprintf(&b, "%s\n", s.MerchantName)
	}
	fmt.Fprintf(&b, "Total: %s\n\n", formatAmount(s.Total, s.Currency))

	for _, sum := range summaries {
		fmt.Fprintf(&b, "%s: %s\n", sum.ParticipantName, formatAmount(sum.GrandTotal, s.Currency))
		fmt.Fprintf(&b, "  Items: %s\n", formatAmount(sum.ItemsTotal, s.Currency))
		if sum.TaxShare > 0 {
			fmt.Fprintf(&b, "  Tax: %s\n", formatAmount(sum.TaxShare, s.Currency))
		}
		if sum.TipShare > 0 {
			fmt.Fprintf(&b, "  Tip: %s\n", formatAmount(sum.TipShare, s.Currency))
		}
		b.WriteString("\n")
	}

	b.WriteString("Split with Splitsies")
	return b.String()
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}
