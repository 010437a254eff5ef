package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants
const (
	PaymentPending = "PENDING"
	PaymentPartial = "PARTIAL"
	PaymentPaid    = "PAID"
)

// PaymentMethod enum constants
const (
	MethodCash       = "CASH"
	MethodCreditCard = "CREDIT_CARD"
	MethodDebitCard  = "DEBIT_CARD"
	MethodPix        = "PIX"
	MethodTransfer   = "TRANSFER"
	MethodCheck      = "CHECK"
)

// InstallmentStatus enum constants
const (
	InstallmentPaid    = "PAID"
	InstallmentPending = "PENDING"
)

// Installment is one scheduled portion of a split payment. The full list lives
// on the invoice as a jsonb column; business code only ever sees the typed slice.
type Installment struct {
	Number  int             `json:"number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
	Status  string          `json:"status"` // PAID or PENDING
}

// Invoice is a billable appointment together with its payment state.
// AmountPaid, PaymentStatus and the installment fields are only ever written
// through the billing engine; Version backs the compare-and-swap on update.
type Invoice struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	Patient               *Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	ProcedureID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"procedure_id"`
	Procedure             *Procedure      `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
	Date                  time.Time       `gorm:"not null;index" json:"date"` // appointment/billing date
	TotalAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AmountPaid            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	PaymentStatus         string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"payment_status"`
	PaymentMethod         *string         `gorm:"type:varchar(20)" json:"payment_method"`
	Installment           bool            `gorm:"not null;default:false" json:"installment"`
	InstallmentCount      int             `gorm:"not null;default:1" json:"installment_count"`
	InstallmentsRemaining int             `gorm:"not null;default:0" json:"installments_remaining"`
	InstallmentAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"installment_amount"`
	NextDueDate           *time.Time      `json:"next_due_date"`
	Installments          []Installment   `gorm:"type:jsonb;serializer:json" json:"installments,omitempty"`
	Version               int             `gorm:"not null;default:1" json:"version"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
