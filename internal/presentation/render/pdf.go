package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer produces the static, export-ready A4 view of the invoice.
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Column widths of the line-item table, in mm. Content width on A4 with
// 15mm margins is 180mm.
const (
	colDescription = 90.0
	colQuantity    = 25.0
	colPrice       = 30.0
	colAmount      = 35.0
)

// Render lays out the single-page export document: header, company block,
// client block with invoice metadata, the line-item table, and the summary.
func (r *PDFRenderer) Render(doc entity.InvoiceDocument, labels i18n.Labels) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts expect cp1252 text, so every drawn string goes through the
	// translator or accented labels ("Cotización", "País") come out garbled.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	primary := parseHexColor(doc.Theme.PrimaryColor, rgb{30, 58, 138})
	secondary := parseHexColor(doc.Theme.SecondaryColor, rgb{100, 116, 139})

	r.drawHeader(pdf, tr, doc, labels, secondary)
	r.drawCompany(pdf, tr, doc.Company, primary)
	r.drawClientAndMeta(pdf, tr, doc.Client, labels, secondary)
	r.drawItems(pdf, tr, doc.Items, labels, secondary)
	r.drawSummary(pdf, tr, doc, labels, primary, secondary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc entity.InvoiceDocument, labels i18n.Labels, secondary rgb) {
	top := pdf.GetY()

	if name, ok := registerLogo(pdf, doc.Logo); ok {
		pdf.ImageOptions(name, 15, top, 50, 0, false, gofpdf.ImageOptions{}, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(secondary.r, secondary.g, secondary.b)
	pdf.CellFormat(0, 12, tr(strings.ToUpper(Title(doc, labels))), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 6, tr(doc.ExtraInfo), "", 1, "R", false, 0, "")

	pdf.SetY(top + 30)
}

func (r *PDFRenderer) drawCompany(pdf *gofpdf.Fpdf, tr func(string) string, company entity.CompanyInfo, primary rgb) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(primary.r, primary.g, primary.b)
	pdf.CellFormat(0, 7, tr(company.Name), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, line := range []string{company.OwnerName, company.Address, company.CityStateZip, company.Country} {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (r *PDFRenderer) drawClientAndMeta(pdf *gofpdf.Fpdf, tr func(string) string, client entity.ClientInfo, labels i18n.Labels, secondary rgb) {
	top := pdf.GetY()

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(secondary.r, secondary.g, secondary.b)
	pdf.CellFormat(90, 6, tr(labels.BillTo), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, line := range []string{client.Name, client.Address, client.CityStateZip, client.Country, client.AdditionalInfo} {
		pdf.CellFormat(90, 5, tr(line), "", 1, "L", false, 0, "")
	}
	clientBottom := pdf.GetY()

	// Invoice metadata column on the right
	pdf.SetY(top)
	meta := []struct{ label, value string }{
		{labels.InvoiceNumber, client.InvoiceNumber},
		{labels.Date, client.Date},
		{labels.DueDate, client.DueDate},
	}
	for _, m := range meta {
		pdf.SetX(120)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(secondary.r, secondary.g, secondary.b)
		pdf.CellFormat(35, 6, tr(m.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(40, 6, tr(m.value), "", 1, "R", false, 0, "")
	}

	if pdf.GetY() < clientBottom {
		pdf.SetY(clientBottom)
	}
	pdf.Ln(10)
}

func (r *PDFRenderer) drawItems(pdf *gofpdf.Fpdf, tr func(string) string, items []entity.LineItem, labels i18n.Labels, secondary rgb) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(secondary.r, secondary.g, secondary.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(colDescription, 8, tr(strings.ToUpper(labels.Item)), "", 0, "L", true, 0, "")
	pdf.CellFormat(colQuantity, 8, tr(strings.ToUpper(labels.Quantity)), "", 0, "C", true, 0, "")
	pdf.CellFormat(colPrice, 8, tr(strings.ToUpper(labels.Price)), "", 0, "R", true, 0, "")
	pdf.CellFormat(colAmount, 8, tr(strings.ToUpper(labels.Amount)), "", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(55, 65, 81)
	pdf.SetDrawColor(229, 231, 235)
	for _, row := range BuildRows(items) {
		pdf.CellFormat(colDescription, 8, tr(row.Description), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colQuantity, 8, tr(row.RawQuantity), "B", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 8, tr(row.Price), "B", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 8, tr(row.Amount), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(10)
}

func (r *PDFRenderer) drawSummary(pdf *gofpdf.Fpdf, tr func(string) string, doc entity.InvoiceDocument, labels i18n.Labels, primary, secondary rgb) {
	summary := BuildSummary(doc, labels)
	top := pdf.GetY()

	// Notes block on the left
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(secondary.r, secondary.g, secondary.b)
	pdf.CellFormat(90, 6, tr(labels.Notes)+":", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.MultiCell(90, 5, tr(doc.Notes), "", "L", false)

	// Totals block on the right
	pdf.SetY(top)
	writeTotal := func(label, amount string) {
		pdf.SetX(120)
		pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(amount), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	writeTotal(labels.SubTotal, summary.Subtotal)
	if summary.ShowDiscount {
		pdf.SetTextColor(220, 38, 38)
		writeTotal(fmt.Sprintf("%s (%s%%)", summary.DiscountLabel, summary.DiscountPercent), "-"+summary.DiscountAmount)
		pdf.SetTextColor(51, 51, 51)
	}
	if summary.ShowTax {
		writeTotal(fmt.Sprintf("%s (%s%%)", summary.TaxLabel, summary.TaxPercent), "+"+summary.TaxAmount)
	}

	pdf.Ln(2)
	pdf.SetX(120)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetDrawColor(primary.r, primary.g, primary.b)
	pdf.SetTextColor(primary.r, primary.g, primary.b)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(45, 10, tr(summary.TotalLabel), "L", 0, "L", true, 0, "")
	pdf.CellFormat(30, 10, tr(summary.GrandTotal), "", 1, "R", true, 0, "")
}

// registerLogo decodes a data-URI logo and registers it with the document.
// Anything unparseable is skipped; a bad logo never fails an export.
func registerLogo(pdf *gofpdf.Fpdf, logo string) (string, bool) {
	if !strings.HasPrefix(logo, "data:image/") {
		return "", false
	}
	rest := strings.TrimPrefix(logo, "data:image/")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", false
	}
	imageType := strings.ToUpper(rest[:semi])
	if imageType == "JPEG" || imageType == "JPG" {
		imageType = "JPG"
	} else if imageType != "PNG" && imageType != "GIF" {
		return "", false
	}

	raw, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return "", false
	}

	pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(raw))
	if pdf.Err() {
		// Clear the image error so the rest of the document still renders.
		pdf.ClearError()
		return "", false
	}
	return "logo", true
}

type rgb struct {
	r, g, b int
}

// parseHexColor parses "#rrggbb", falling back to the given default for
// anything else.
func parseHexColor(s string, fallback rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
