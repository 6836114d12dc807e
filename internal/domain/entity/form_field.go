package entity

import "time"

// FormField is one persisted key/value pair of the invoice form state.
// All values are text-encoded; structured fields (company, client, items)
// are stored as JSON documents under a single key.
type FormField struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the FormField model
func (FormField) TableName() string {
	return "form_fields"
}
