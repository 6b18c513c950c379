// Package services provides pricing, document assembly and rendering for job quotes.
package services

import (
	"strings"
	"time"
)

// ValidityDays is how long a quote stays valid after its reference date.
const ValidityDays = 30

func CalcLineTotal(hours, rate float64) float64 {
	return hours * rate
}

// CalcSubtotal sums every line total followed by every extra price, in slice order.
func CalcSubtotal(items []LineItem, extras []ExtraItem) float64 {
	var sum float64
	for _, item := range items {
		sum += CalcLineTotal(item.Hours, item.Rate)
	}
	for _, extra := range extras {
		sum += extra.Price
	}
	return sum
}

func CalcTax(subtotal, taxRatePercent float64) float64 {
	return subtotal * taxRatePercent / 100
}

func CalcTotal(subtotal, tax float64) float64 {
	return subtotal + tax
}

// QuoteTotals holds the derived money values of a quote.
type QuoteTotals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// CalcQuoteTotals computes subtotal, tax and total in one pass.
func CalcQuoteTotals(items []LineItem, extras []ExtraItem, taxRatePercent float64) QuoteTotals {
	subtotal := CalcSubtotal(items, extras)
	tax := CalcTax(subtotal, taxRatePercent)
	return QuoteTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    CalcTotal(subtotal, tax),
	}
}

// QuoteNumber derives the display number from a quote identifier.
// Format: Q-{first 8 hex characters of the id, upper-cased}.
func QuoteNumber(id string) string {
	var b strings.Builder
	for _, r := range id {
		if b.Len() == 8 {
			break
		}
		if r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return "Q-" + strings.ToUpper(b.String())
}

// ValidUntil returns ref plus ValidityDays calendar days. If the addition
// does not move forward (out-of-range years wrap around) ref is returned.
func ValidUntil(ref time.Time) time.Time {
	until := ref.AddDate(0, 0, ValidityDays)
	if !until.After(ref) {
		return ref
	}
	return until
}
