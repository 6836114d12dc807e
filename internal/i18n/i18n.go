// Package i18n resolves the fixed set of user-facing invoice labels.
// Lookup falls back from the requested language to English and finally to
// the key itself, so a partial catalog never breaks rendering.
package i18n

const defaultLanguage = "en"

var catalogs = map[string]map[string]string{
	"en": {
		"to":               "To:",
		"invoiceNumber":    "Invoice No.",
		"date":             "Date",
		"dueDate":          "Due Date",
		"clientName":       "Client's Name",
		"clientAddress":    "Client's Address",
		"cityStateZip":     "City, State Zip",
		"country":          "Country",
		"aditionalInfo":    "Aditional Info",
		"addLogo":          "+ Add Logo",
		"invoiceTitle":     "INVOICE",
		"invoiceExtraInfo": "Add extra info (e.g. #INV-001)",
		"companyName":      "Company Name",
		"yourName":         "Your Name",
		"companyAddress":   "Company's Address",
		"item":             "Item",
		"quantity":         "Quantity",
		"price":            "Price",
		"amount":           "Amount",
		"subTotal":         "Sub Total",
		"discount":         "Discount",
		"tax":              "Tax",
		"total":            "TOTAL",
		"addDiscount":      "Add Discount",
		"addTax":           "Add Tax",
		"addItem":          "Add Item",
		"notes":            "Notes",
		"notesPlaceholder": "Any relevant information...",
	},
	"es": {
		"to":               "Para:",
		"invoiceNumber":    "Cotización N.",
		"date":             "Fecha",
		"dueDate":          "Vencimiento",
		"clientName":       "Nombre del Cliente",
		"clientAddress":    "Dirección del Cliente",
		"cityStateZip":     "Ciudad, Estado Zip",
		"country":          "País",
		"aditionalInfo":    "Información Adicional",
		"addLogo":          "+ Agregar Logo",
		"invoiceTitle":     "FACTURA",
		"invoiceExtraInfo": "Información extra (ej. #INV-001)",
		"companyName":      "Nombre de la Empresa",
		"yourName":         "Tu Nombre",
		"companyAddress":   "Dirección de la Empresa",
		"item":             "Item",
		"quantity":         "Cantidad",
		"price":            "Precio",
		"amount":           "A pagar",
		"subTotal":         "Sub Total",
		"discount":         "Descuento",
		"tax":              "Impuesto",
		"total":            "TOTAL",
		"addDiscount":      "Agregar Descuento",
		"addTax":           "Agregar Impuesto",
		"addItem":          "Agregar Item",
		"notes":            "Notas",
		"notesPlaceholder": "Cualquier información relevante...",
	},
}

// T translates a key for the given language. Missing languages fall back to
// English; missing keys fall back to the key name.
func T(lang, key string) string {
	if c, ok := catalogs[lang]; ok {
		if s, ok := c[key]; ok {
			return s
		}
	}
	if s, ok := catalogs[defaultLanguage][key]; ok {
		return s
	}
	return key
}

// Languages lists the catalog languages available for the language switcher.
func Languages() []string {
	return []string{"en", "es"}
}

// Labels bundles every translated string the renderers need.
type Labels struct {
	BillTo        string `json:"bill_to"`
	InvoiceNumber string `json:"invoice_number"`
	Date          string `json:"date"`
	DueDate       string `json:"due_date"`
	Item          string `json:"item"`
	Quantity      string `json:"quantity"`
	Price         string `json:"price"`
	Amount        string `json:"amount"`
	SubTotal      string `json:"sub_total"`
	Discount      string `json:"discount"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	Notes         string `json:"notes"`
	Title         string `json:"title"`
	AddItem       string `json:"add_item"`
	AddDiscount   string `json:"add_discount"`
	AddTax        string `json:"add_tax"`
}

// ResolveLabels translates the full label set for one language.
func ResolveLabels(lang string) Labels {
	return Labels{
		BillTo:        T(lang, "to"),
		InvoiceNumber: T(lang, "invoiceNumber"),
		Date:          T(lang, "date"),
		DueDate:       T(lang, "dueDate"),
		Item:          T(lang, "item"),
		Quantity:      T(lang, "quantity"),
		Price:         T(lang, "price"),
		Amount:        T(lang, "amount"),
		SubTotal:      T(lang, "subTotal"),
		Discount:      T(lang, "discount"),
		Tax:           T(lang, "tax"),
		Total:         T(lang, "total"),
		Notes:         T(lang, "notes"),
		Title:         T(lang, "invoiceTitle"),
		AddItem:       T(lang, "addItem"),
		AddDiscount:   T(lang, "addDiscount"),
		AddTax:        T(lang, "addTax"),
	}
}
