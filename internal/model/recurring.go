package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency enum constants for recurring invoices
const (
	FrequencyWeekly     = "weekly"
	FrequencyBiweekly   = "biweekly"
	FrequencyMonthly    = "monthly"
	FrequencyBimonthly  = "bimonthly"
	FrequencyQuarterly  = "quarterly"
	FrequencySemiannual = "semiannual"
	FrequencyAnnual     = "annual"
)

// TemplateItem is one line of a stored invoice template.
type TemplateItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceTemplate is the snapshot a recurring invoice materializes
// from. Client fields are copied verbatim at generation time; no live
// client lookup happens. Total is cached for display only — totals are
// recomputed from Items when an invoice is generated.
type InvoiceTemplate struct {
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	Items       []TemplateItem  `json:"items"`
}

// RecurringInvoice is a saved blueprint that periodically produces new
// invoices. It is due when active, next_invoice_date has arrived and
// end_date (if set) has not passed. Past end_date it simply stops being
// selected; it is never auto-paused or deleted.
type RecurringInvoice struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID          *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	InvoiceTemplate   string     `gorm:"type:jsonb;not null" json:"invoice_template"` // InvoiceTemplate snapshot
	Frequency         string     `gorm:"type:varchar(20);not null" json:"frequency"`
	StartDate         time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate           *time.Time `gorm:"type:date" json:"end_date"`
	NextInvoiceDate   time.Time  `gorm:"type:date;not null;index" json:"next_invoice_date"`
	IsActive          bool       `gorm:"not null;default:true;index" json:"is_active"`
	InvoicesGenerated int        `gorm:"not null;default:0" json:"invoices_generated"`
	LastGeneratedAt   *time.Time `json:"last_generated_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Template unmarshals the stored snapshot.
func (r *RecurringInvoice) Template() (InvoiceTemplate, error) {
	var tpl InvoiceTemplate
	err := json.Unmarshal([]byte(r.InvoiceTemplate), &tpl)
	return tpl, err
}

// SetTemplate marshals and stores the snapshot.
func (r *RecurringInvoice) SetTemplate(tpl InvoiceTemplate) error {
	raw, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	r.InvoiceTemplate = string(raw)
	return nil
}

// ValidFrequency reports whether f is one of the seven supported
// frequency strings.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyBimonthly,
		FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual:
		return true
	}
	return false
}
