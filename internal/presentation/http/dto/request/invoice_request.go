package request

// FieldUpdateRequest is a keyed single-field update for the company, client,
// or meta block of the invoice.
type FieldUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ItemUpdateRequest is a keyed single-field update for one line item.
type ItemUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// AdjustmentRequest shows or updates the discount or tax adjustment.
type AdjustmentRequest struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SettingsRequest updates the cross-cutting presentation state: the two
// theme colors and the label language. Empty fields are left unchanged.
type SettingsRequest struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Language       string `json:"language"`
}
