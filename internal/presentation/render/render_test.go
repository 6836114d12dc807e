package render

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
	"testing"

	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
)

func sampleDocument() entity.InvoiceDocument {
	return entity.InvoiceDocument{
		Company: entity.CompanyInfo{Name: "Acme Studio", Country: "Honduras"},
		Client:  entity.ClientInfo{Name: "Jane Roe", InvoiceNumber: "INV-042"},
		Items: []entity.LineItem{
			{ID: "a", Description: "Consulting", Quantity: "3", UnitPrice: "150"},
			{ID: "b", Description: "Hosting", Quantity: "1", UnitPrice: "25.5"},
		},
		Discount: entity.Adjustment{Value: "10", Visible: true},
		Tax:      entity.Adjustment{Value: "16", Visible: true},
		Notes:    "Payment due within 30 days.",
		Currency: "lps",
		Language: "en",
		Theme:    entity.Theme{PrimaryColor: "#1e3a8a", SecondaryColor: "#64748b"},
	}
}

func TestBuildRows_EmptyListGetsPlaceholder(t *testing.T) {
	rows := BuildRows(nil)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one placeholder row, got %d", len(rows))
	}
	if rows[0].Amount != "0.00" {
		t.Fatalf("placeholder amount = %q, want 0.00", rows[0].Amount)
	}
}

func TestBuildRows_MalformedItemsDropped(t *testing.T) {
	items := []entity.LineItem{
		{ID: "", Description: "ghost", Quantity: "5", UnitPrice: "100"},
		{ID: "ok", Description: "real", Quantity: "2", UnitPrice: "3"},
	}
	rows := BuildRows(items)
	if len(rows) != 1 || rows[0].Description != "real" {
		t.Fatalf("expected only the well-formed row, got %+v", rows)
	}

	onlyMalformed := BuildRows(items[:1])
	if len(onlyMalformed) != 1 || onlyMalformed[0].Amount != "0.00" {
		t.Fatalf("expected placeholder row, got %+v", onlyMalformed)
	}
}

func TestBuildRows_PreservesOrderAndAmounts(t *testing.T) {
	doc := sampleDocument()
	rows := BuildRows(doc.Items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Amount != "450.00" || rows[1].Amount != "25.50" {
		t.Fatalf("unexpected amounts: %q, %q", rows[0].Amount, rows[1].Amount)
	}
}

func TestBuildSummary_GrandTotalFormat(t *testing.T) {
	doc := sampleDocument()
	labels := i18n.ResolveLabels(doc.Language)
	summary := BuildSummary(doc, labels)

	// subtotal 475.50, discount 47.55, taxable 427.95, tax 68.472
	if summary.Subtotal != "475.50" {
		t.Fatalf("subtotal = %q", summary.Subtotal)
	}
	if summary.DiscountAmount != "47.55" {
		t.Fatalf("discountAmount = %q", summary.DiscountAmount)
	}
	if summary.TaxAmount != "68.47" {
		t.Fatalf("taxAmount = %q", summary.TaxAmount)
	}
	if summary.GrandTotal != "lps 496.42" {
		t.Fatalf("grandTotal = %q", summary.GrandTotal)
	}
}

func TestBuildSummary_LabelFallsBackToTranslation(t *testing.T) {
	doc := sampleDocument()
	doc.Discount.Label = "Loyalty"
	summary := BuildSummary(doc, i18n.ResolveLabels("en"))
	if summary.DiscountLabel != "Loyalty" {
		t.Fatalf("discountLabel = %q", summary.DiscountLabel)
	}
	if summary.TaxLabel != "Tax" {
		t.Fatalf("taxLabel = %q", summary.TaxLabel)
	}
}

func TestRenderers_ShareTotals(t *testing.T) {
	doc := sampleDocument()
	labels := i18n.ResolveLabels(doc.Language)

	html, err := NewHTMLRenderer().Render(doc, labels)
	if err != nil {
		t.Fatalf("html render failed: %v", err)
	}
	if !strings.Contains(string(html), "lps 496.42") {
		t.Fatal("html view does not contain the grand total")
	}
	if !strings.Contains(string(html), "450.00") {
		t.Fatal("html view does not contain the per-row amount")
	}

	pdf, err := NewPDFRenderer().Render(doc, labels)
	if err != nil {
		t.Fatalf("pdf render failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("pdf output does not start with a PDF header")
	}
}

// inflatedPDFStreams decompresses every flate stream in the document so tests
// can inspect the page content bytes.
func inflatedPDFStreams(t *testing.T, pdf []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	rest := pdf
	for {
		start := bytes.Index(rest, []byte("\nstream\n"))
		if start < 0 {
			break
		}
		data := rest[start+len("\nstream\n"):]
		end := bytes.Index(data, []byte("\nendstream"))
		if end < 0 {
			break
		}
		if zr, err := zlib.NewReader(bytes.NewReader(data[:end])); err == nil {
			io.Copy(&out, zr)
			zr.Close()
		}
		rest = data[end:]
	}
	if out.Len() == 0 {
		t.Fatal("no decompressible content streams found")
	}
	return out.Bytes()
}

func TestPDFRenderer_AccentedTextUsesCoreFontEncoding(t *testing.T) {
	doc := sampleDocument()
	doc.Language = "es"
	doc.Client.Name = "José Pérez"
	out, err := NewPDFRenderer().Render(doc, i18n.ResolveLabels("es"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// Helvetica is a cp1252 core font: "ó" must land as the single byte 0xf3,
	// not as raw UTF-8, or viewers show mojibake.
	content := inflatedPDFStreams(t, out)
	if bytes.Contains(content, []byte("Cotizaci\xc3\xb3n")) {
		t.Fatal("label written as raw UTF-8 bytes")
	}
	if !bytes.Contains(content, []byte("Cotizaci\xf3n")) {
		t.Fatal("expected cp1252-encoded invoice number label in the page content")
	}
	if !bytes.Contains(content, []byte("Jos\xe9 P\xe9rez")) {
		t.Fatal("expected cp1252-encoded client name in the page content")
	}
}

func TestPDFRenderer_EmptyDocumentStillRenders(t *testing.T) {
	var doc entity.InvoiceDocument
	out, err := NewPDFRenderer().Render(doc, i18n.ResolveLabels("en"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty pdf bytes")
	}
}

func TestPDFRenderer_BadLogoIgnored(t *testing.T) {
	doc := sampleDocument()
	doc.Logo = "data:image/png;base64,not-valid-base64!!!"
	out, err := NewPDFRenderer().Render(doc, i18n.ResolveLabels("en"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("expected a well-formed pdf despite the bad logo")
	}
}

func TestParseHexColor(t *testing.T) {
	c := parseHexColor("#1e3a8a", rgb{0, 0, 0})
	if c.r != 30 || c.g != 58 || c.b != 138 {
		t.Fatalf("parsed color = %+v", c)
	}
	fallback := rgb{1, 2, 3}
	if got := parseHexColor("blue", fallback); got != fallback {
		t.Fatalf("expected fallback, got %+v", got)
	}
}
