package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants. OVERDUE is also derived for display
// when the due date has passed and the invoice is unpaid; only user
// actions change the stored value.
const (
	StatusDraft   = "DRAFT"
	StatusSent    = "SENT"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

// Invoice is the invoice header plus denormalized company/client
// snapshots. Totals are always recomputed server-side from the line
// items; values submitted by a client are never trusted.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	Date          time.Time `gorm:"type:date;not null" json:"date"`
	DueDate       time.Time `gorm:"type:date;not null" json:"due_date"`
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Currency      string    `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`

	// Client snapshot (copied at creation, no live lookup afterwards)
	ClientID      *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	ClientName    string     `gorm:"type:varchar(255)" json:"client_name"`
	ClientEmail   string     `gorm:"type:varchar(255)" json:"client_email"`
	ClientAddress string     `gorm:"type:text" json:"client_address"`
	ClientPhone   string     `gorm:"type:varchar(50)" json:"client_phone"`

	// Company snapshot
	CompanyName    string `gorm:"type:varchar(255)" json:"company_name"`
	CompanyEmail   string `gorm:"type:varchar(255)" json:"company_email"`
	CompanyAddress string `gorm:"type:text" json:"company_address"`
	CompanyPhone   string `gorm:"type:varchar(50)" json:"company_phone"`
	CompanyWebsite string `gorm:"type:varchar(255)" json:"company_website"`
	CompanyLogoURL string `gorm:"type:text" json:"company_logo_url"`

	// subtotal = sum(item.total), tax_total = subtotal * tax_rate / 100,
	// total = subtotal + tax_total - discount. No clamping; total goes
	// negative when the discount exceeds subtotal + tax.
	Subtotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // percentage, e.g. 7.5
	TaxTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_total"`
	Discount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"` // flat amount, post-tax
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`

	Notes string `gorm:"type:text" json:"notes"`
	Terms string `gorm:"type:text" json:"terms"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one billable row. Total is derived as quantity * rate
// and rewritten on every quantity/rate change.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"rate"` // may be negative for credits
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
}
