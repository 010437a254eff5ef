package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Derived, read-only views. None of these are persisted: they are recomputed
// from the invoice/expense snapshot on every query and owned by the caller.

// OutstandingBalance aggregates what a patient still owes across all of their
// unsettled (PENDING or PARTIAL) invoices.
type OutstandingBalance struct {
	PatientID       uuid.UUID       `json:"patient_id"`
	PatientName     string          `json:"patient_name"`
	TotalBilled     decimal.Decimal `json:"total_billed"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Balance         decimal.Decimal `json:"balance"`
	PendingInvoices int             `json:"pending_invoices"`
}

// ReceivableDetail is one pending installment inside a forecast bucket.
type ReceivableDetail struct {
	Patient     string          `json:"patient"`
	Procedure   string          `json:"procedure"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Installment string          `json:"installment"` // "k/N"
}

// ReceivableForecast buckets pending credit-card installments by due month.
type ReceivableForecast struct {
	Year             int                `json:"year"`
	Month            string             `json:"month"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	InstallmentCount int                `json:"installment_count"`
	Details          []ReceivableDetail `json:"details"`
}

// CategoryAmount is one row of a category or payment-method breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyAmount is one row of a per-month breakdown. Months inside the report
// window always appear, zero-valued when nothing happened.
type MonthlyAmount struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// FinancialReport is the period revenue/expense/profit aggregate with its
// breakdowns. Revenue follows the recognition rule: PAID invoices contribute
// their total, PARTIAL ones the amount actually paid, PENDING ones nothing.
type FinancialReport struct {
	Period             string           `json:"period"`
	TotalRevenue       decimal.Decimal  `json:"total_revenue"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	Profit             decimal.Decimal  `json:"profit"`
	RevenueByCategory  []CategoryAmount `json:"revenue_by_category"`
	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
	RevenueByMethod    []CategoryAmount `json:"revenue_by_method"`
	ExpensesByMethod   []CategoryAmount `json:"expenses_by_method"`
	MonthlyRevenue     []MonthlyAmount  `json:"monthly_revenue"`
	MonthlyExpenses    []MonthlyAmount  `json:"monthly_expenses"`
}
