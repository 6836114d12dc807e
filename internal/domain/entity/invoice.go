package entity

import "encoding/json"

// FlexValue holds a quantity, price, or percentage exactly as the user typed
// it. The stored text may be empty or partially typed while a field is being
// edited; arithmetic goes through calc.SafeNumber instead of reading this
// value directly. Accepts both JSON strings and JSON numbers on input.
type FlexValue string

func (v FlexValue) String() string {
	return string(v)
}

func (v FlexValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FlexValue(n.String())
	return nil
}

// LineItem represents one billable row on the invoice.
type LineItem struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Quantity    FlexValue `json:"quantity"`
	UnitPrice   FlexValue `json:"unit_price"`
}

// CompanyInfo holds the issuing company block of the invoice.
type CompanyInfo struct {
	Name         string `json:"name"`
	OwnerName    string `json:"owner_name"`
	Address      string `json:"address"`
	CityStateZip string `json:"city_state_zip"`
	Country      string `json:"country"`
}

// ClientInfo holds the billed party block plus the invoice metadata
// displayed next to it. Date and DueDate are session-only: they are never
// persisted and always reload as empty.
type ClientInfo struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	CityStateZip   string `json:"city_state_zip"`
	Country        string `json:"country"`
	AdditionalInfo string `json:"additional_info"`
	InvoiceNumber  string `json:"invoice_number"`
	Date           string `json:"date"`
	DueDate        string `json:"due_date"`
}

// Adjustment is a named percentage modifier (discount or tax) applied to the
// subtotal. When Visible is false it contributes nothing to the totals,
// whatever value is still stored.
type Adjustment struct {
	Label   string    `json:"label"`
	Value   FlexValue `json:"value"`
	Visible bool      `json:"visible"`
}

// Theme holds the two customizable accent colors shared by both renderers.
type Theme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// InvoiceDocument is the complete, renderer-agnostic description of one
// invoice. It is the single source of truth consumed by the interactive view
// and the export view; totals are derived from it on every read and never
// stored.
type InvoiceDocument struct {
	Company   CompanyInfo `json:"company"`
	Client    ClientInfo  `json:"client"`
	Items     []LineItem  `json:"items"`
	Discount  Adjustment  `json:"discount"`
	Tax       Adjustment  `json:"tax"`
	Notes     string      `json:"notes"`
	Title     string      `json:"title"`
	ExtraInfo string      `json:"extra_info"`
	Currency  string      `json:"currency"`
	Logo      string      `json:"logo"`
	Theme     Theme       `json:"theme"`
	Language  string      `json:"language"`
}

// Clone returns a deep copy of the document so renderers and API responses
// never observe a partially applied mutation.
func (d InvoiceDocument) Clone() InvoiceDocument {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}
