// Package calc derives invoice totals from line items and adjustments.
// All functions are pure; callers recompute on every read instead of
// caching results across item-list mutations.
package calc

import (
	"math"
	"strconv"
	"strings"

	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
)

// SafeNumber converts user-entered text to a number. Empty strings,
// non-numeric text, NaN, and ±Inf all coerce to 0 so that a field left
// mid-edit never breaks downstream arithmetic. It never fails.
func SafeNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Only presentation code should round; intermediate math stays unrounded to
// avoid compounding rounding error across subtotal, discount, tax and total.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Amount returns the derived per-row amount: quantity times unit price.
func Amount(item entity.LineItem) float64 {
	return SafeNumber(item.Quantity.String()) * SafeNumber(item.UnitPrice.String())
}

// Subtotal sums quantity times unit price over all items in list order.
func Subtotal(items []entity.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += Amount(item)
	}
	return sum
}

// Breakdown contains every derived monetary value of one invoice.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// Percent resolves an adjustment to the percentage it contributes. A hidden
// adjustment contributes 0 regardless of any residual stored value.
func Percent(a entity.Adjustment) float64 {
	if !a.Visible {
		return 0
	}
	return SafeNumber(a.Value.String())
}

// Compute derives the full totals breakdown. The evaluation order is fixed:
// the discount applies to the subtotal, and tax applies to the post-discount
// base. This ordering is a business rule, not a configuration knob.
func Compute(items []entity.LineItem, discount, tax entity.Adjustment) Breakdown {
	subtotal := Subtotal(items)
	discountAmount := subtotal * (Percent(discount) / 100)
	taxableBase := subtotal - discountAmount
	taxAmount := taxableBase * (Percent(tax) / 100)

	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		GrandTotal:     subtotal - discountAmount + taxAmount,
	}
}

// Rounded returns a copy of the breakdown with every value rounded for
// display.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       Round2(b.Subtotal),
		DiscountAmount: Round2(b.DiscountAmount),
		TaxAmount:      Round2(b.TaxAmount),
		GrandTotal:     Round2(b.GrandTotal),
	}
}
