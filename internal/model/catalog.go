package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogItem is a reusable billable item the editor can drop onto an
// invoice as a prefilled line.
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"rate"`
	Unit        string          `gorm:"type:varchar(50)" json:"unit"` // hour, unit, month, ...
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
