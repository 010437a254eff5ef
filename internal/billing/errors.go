package billing

import "errors"

// Engine failures are sentinel errors so callers can map them with errors.Is.
var (
	// ErrInvalidAmount means a paid amount is negative or exceeds the invoice total.
	ErrInvalidAmount = errors.New("paid amount must be between zero and the invoice total")

	// ErrInvalidInstallmentCount means a plan was requested with fewer than two
	// installments; the entry payment always occupies installment 1.
	ErrInvalidInstallmentCount = errors.New("installment plan requires at least 2 installments")

	// ErrInstallmentNotFound means the referenced installment number does not
	// exist on the invoice.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrInstallmentOrderViolation means a toggle would break the paid-prefix
	// rule: installments are paid strictly in order and un-paid in reverse.
	ErrInstallmentOrderViolation = errors.New("installments must be paid in order")

	// ErrInvoiceSettled means the invoice is already fully paid; recording
	// another payment would downgrade it, which is not allowed.
	ErrInvoiceSettled = errors.New("invoice is already paid in full")

	// ErrInvalidInstallmentStatus means a toggle used a status other than PAID
	// or PENDING.
	ErrInvalidInstallmentStatus = errors.New("installment status must be PAID or PENDING")
)
