package render

import (
	"bytes"
	"html/template"

	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
)

// HTMLRenderer produces the interactive, editable on-screen form view.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates a new HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tmpl: template.Must(template.New("invoice").Parse(formTemplate)),
	}
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type htmlView struct {
	Doc     entity.InvoiceDocument
	Labels  i18n.Labels
	Title   string
	Logo    template.URL
	Rows    []Row
	Summary Summary
}

// Render renders the editable form view for the given document snapshot.
func (r *HTMLRenderer) Render(doc entity.InvoiceDocument, labels i18n.Labels) ([]byte, error) {
	view := htmlView{
		Doc:    doc,
		Labels: labels,
		Title:  Title(doc, labels),
		// The logo is a data URI the user uploaded; mark it as a trusted URL
		// so the sanitizer does not strip it.
		Logo:    template.URL(doc.Logo),
		Rows:    BuildRows(doc.Items),
		Summary: BuildSummary(doc, labels),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const formTemplate = `<!DOCTYPE html>
<html lang="{{.Doc.Language}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #333; background: #f9fafb; }
  .invoice { width: 60%; margin: 40px auto; background: #fff; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,.1); }
  .header { display: flex; justify-content: space-between; margin-bottom: 30px; }
  .title { font-size: 28px; font-weight: bold; text-transform: uppercase; color: {{.Doc.Theme.SecondaryColor}}; }
  .company-name { font-size: 18px; font-weight: bold; color: {{.Doc.Theme.PrimaryColor}}; }
  .section-title { font-weight: bold; color: {{.Doc.Theme.SecondaryColor}}; }
  input, textarea { border: 1px solid transparent; font: inherit; color: inherit; width: 100%; }
  input:hover, textarea:hover { border-color: #e5e7eb; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
  thead th { background: {{.Doc.Theme.SecondaryColor}}; color: #fff; text-transform: uppercase; font-size: 12px; padding: 10px; }
  tbody td { border-bottom: 1px solid #e5e7eb; padding: 10px; }
  td.num, th.num { text-align: right; }
  td.qty, th.qty { text-align: center; }
  .summary { width: 40%; margin-left: auto; }
  .summary-row { display: flex; justify-content: space-between; margin-bottom: 6px; }
  .grand-total { display: flex; justify-content: space-between; background: #f3f4f6; padding: 10px; font-weight: bold; border-left: 4px solid {{.Doc.Theme.PrimaryColor}}; color: {{.Doc.Theme.PrimaryColor}}; }
</style>
</head>
<body>
<div class="invoice">
  <div class="header">
    <div>{{if .Logo}}<img src="{{.Logo}}" alt="Logo" style="max-width:150px;max-height:80px">{{end}}</div>
    <div style="text-align:right">
      <div class="title">{{.Title}}</div>
      <div>{{.Doc.ExtraInfo}}</div>
    </div>
  </div>

  <div style="margin-bottom:30px">
    <div class="company-name">{{.Doc.Company.Name}}</div>
    <div>{{.Doc.Company.OwnerName}}</div>
    <div>{{.Doc.Company.Address}}</div>
    <div>{{.Doc.Company.CityStateZip}}</div>
    <div>{{.Doc.Company.Country}}</div>
  </div>

  <div style="display:flex;justify-content:space-between;margin-bottom:30px">
    <div style="width:50%">
      <div class="section-title">{{.Labels.BillTo}}</div>
      <div>{{.Doc.Client.Name}}</div>
      <div>{{.Doc.Client.Address}}</div>
      <div>{{.Doc.Client.CityStateZip}}</div>
      <div>{{.Doc.Client.Country}}</div>
      <div>{{.Doc.Client.AdditionalInfo}}</div>
    </div>
    <div style="width:40%">
      <div class="summary-row"><span class="section-title">{{.Labels.InvoiceNumber}}</span><span>{{.Doc.Client.InvoiceNumber}}</span></div>
      <div class="summary-row"><span class="section-title">{{.Labels.Date}}</span><span>{{.Doc.Client.Date}}</span></div>
      <div class="summary-row"><span class="section-title">{{.Labels.DueDate}}</span><span>{{.Doc.Client.DueDate}}</span></div>
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th style="text-align:left">{{.Labels.Item}}</th>
        <th class="qty">{{.Labels.Quantity}}</th>
        <th class="num">{{.Labels.Price}}</th>
        <th class="num">{{.Labels.Amount}}</th>
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr data-item-id="{{.ID}}">
        <td><input name="description" value="{{.Description}}"></td>
        <td class="qty"><input name="quantity" value="{{.RawQuantity}}"></td>
        <td class="num"><input name="unit_price" value="{{.RawPrice}}"></td>
        <td class="num">{{.Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div style="display:flex;justify-content:space-between">
    <div style="width:50%">
      <div class="section-title">{{.Labels.Notes}}:</div>
      <textarea rows="4" name="notes">{{.Doc.Notes}}</textarea>
    </div>
    <div class="summary">
      <div class="summary-row"><span>{{.Labels.SubTotal}}</span><span>{{.Summary.Subtotal}}</span></div>
      {{if .Summary.ShowDiscount}}
      <div class="summary-row"><span>{{.Summary.DiscountLabel}} ({{.Summary.DiscountPercent}}%)</span><span style="color:red">-{{.Summary.DiscountAmount}}</span></div>
      {{end}}
      {{if .Summary.ShowTax}}
      <div class="summary-row"><span>{{.Summary.TaxLabel}} ({{.Summary.TaxPercent}}%)</span><span>+{{.Summary.TaxAmount}}</span></div>
      {{end}}
      <div class="grand-total"><span>{{.Summary.TotalLabel}}</span><span>{{.Summary.GrandTotal}}</span></div>
    </div>
  </div>
</div>
</body>
</html>
`
