// Package render turns one invoice document into its two presentations: the
// interactive HTML form and the static PDF export. Both adapters are
// stateless and consume the same document snapshot, row derivation, and
// totals computation, so they cannot drift apart numerically.
package render

import (
	"fmt"

	"github.com/Luuiskame/cubicular-api/internal/domain/calc"
	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
)

// Renderer is the shared contract for both presentation adapters.
type Renderer interface {
	Render(doc entity.InvoiceDocument, labels i18n.Labels) ([]byte, error)
	ContentType() string
}

// Row is one display row of the line-item table. Raw values keep the user's
// editing text for input fields; Price and Amount are formatted to 2
// decimals for display.
type Row struct {
	ID          string
	Description string
	RawQuantity string
	RawPrice    string
	Price       string
	Amount      string
}

// Summary is the totals block shared by both renderers.
type Summary struct {
	Subtotal        string
	DiscountLabel   string
	DiscountPercent string
	DiscountAmount  string
	TaxLabel        string
	TaxPercent      string
	TaxAmount       string
	ShowDiscount    bool
	ShowTax         bool
	TotalLabel      string
	// GrandTotal is formatted as "<currency> <amount>".
	GrandTotal string
}

// BuildRows derives the table rows for one document. Items without an id are
// dropped as malformed, and an empty result is replaced by a single
// zero-value placeholder row so the rendered table is always well-formed.
func BuildRows(items []entity.LineItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		qty := item.Quantity.String()
		if qty == "" {
			qty = "0"
		}
		rows = append(rows, Row{
			ID:          item.ID,
			Description: item.Description,
			RawQuantity: qty,
			RawPrice:    item.UnitPrice.String(),
			Price:       money(calc.SafeNumber(item.UnitPrice.String())),
			Amount:      money(calc.Amount(item)),
		})
	}
	if len(rows) == 0 {
		rows = append(rows, Row{RawQuantity: "0", RawPrice: "0", Price: "0.00", Amount: "0.00"})
	}
	return rows
}

// BuildSummary derives the totals block for one document.
func BuildSummary(doc entity.InvoiceDocument, labels i18n.Labels) Summary {
	totals := calc.Compute(doc.Items, doc.Discount, doc.Tax)

	discountLabel := doc.Discount.Label
	if discountLabel == "" {
		discountLabel = labels.Discount
	}
	taxLabel := doc.Tax.Label
	if taxLabel == "" {
		taxLabel = labels.Tax
	}

	return Summary{
		Subtotal:        money(totals.Subtotal),
		DiscountLabel:   discountLabel,
		DiscountPercent: trimPercent(calc.Percent(doc.Discount)),
		DiscountAmount:  money(totals.DiscountAmount),
		TaxLabel:        taxLabel,
		TaxPercent:      trimPercent(calc.Percent(doc.Tax)),
		TaxAmount:       money(totals.TaxAmount),
		ShowDiscount:    doc.Discount.Visible,
		ShowTax:         doc.Tax.Visible,
		TotalLabel:      labels.Total,
		GrandTotal:      fmt.Sprintf("%s %s", doc.Currency, money(totals.GrandTotal)),
	}
}

// Title resolves the displayed document title, falling back to the
// translated default when the user left it empty.
func Title(doc entity.InvoiceDocument, labels i18n.Labels) string {
	if doc.Title != "" {
		return doc.Title
	}
	return labels.Title
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", calc.Round2(v))
}

func trimPercent(v float64) string {
	return fmt.Sprintf("%g", v)
}
