package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory enum constants
const (
	CategoryDentalSupplies = "DENTAL_SUPPLIES"
	CategoryEquipment      = "EQUIPMENT"
	CategorySalaries       = "SALARIES"
	CategoryRent           = "RENT"
	CategoryUtilities      = "UTILITIES"
	CategoryMarketing      = "MARKETING"
	CategoryOther          = "OTHER"
)

// Expense is an outgoing payment of the clinic. It is an independent ledger:
// expenses carry no payment state machine, their full amount always counts.
type Expense struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category      string          `gorm:"type:varchar(30);not null;default:'OTHER';index" json:"category"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
