package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile holds the single company profile used to prefill the company
// snapshot and default totals fields on new invoices.
type Profile struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyName     string          `gorm:"type:varchar(255)" json:"company_name"`
	CompanyEmail    string          `gorm:"type:varchar(255)" json:"company_email"`
	CompanyAddress  string          `gorm:"type:text" json:"company_address"`
	CompanyPhone    string          `gorm:"type:varchar(50)" json:"company_phone"`
	CompanyWebsite  string          `gorm:"type:varchar(255)" json:"company_website"`
	CompanyLogoURL  string          `gorm:"type:text" json:"company_logo_url"`
	CompanyTaxID    string          `gorm:"type:varchar(50)" json:"company_tax_id"`
	DefaultCurrency string          `gorm:"type:varchar(10);not null;default:'USD'" json:"default_currency"`
	DefaultTaxRate  decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"default_tax_rate"`
	DefaultNotes    string          `gorm:"type:text" json:"default_notes"`
	DefaultTerms    string          `gorm:"type:text" json:"default_terms"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
