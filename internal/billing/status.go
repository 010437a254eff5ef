package billing

import (
	"time"

	"dentalclinic/internal/model"

	"github.com/shopspring/decimal"
)

// DeriveStatus is the single source of truth for an invoice's payment status.
// Status is never stored independently: it is always this function of the
// amounts, recomputed by every mutation path.
func DeriveStatus(totalAmount, amountPaid decimal.Decimal) string {
	switch {
	case amountPaid.GreaterThanOrEqual(totalAmount):
		return model.PaymentPaid
	case amountPaid.IsPositive():
		return model.PaymentPartial
	default:
		return model.PaymentPending
	}
}

// PaymentInput carries everything a payment recording needs from the caller.
type PaymentInput struct {
	Amount decimal.Decimal
	Method string
	// WantsInstallments requests a credit-card plan; ignored for other methods.
	WantsInstallments bool
	InstallmentCount  int
	// Date is the plan start date, normally today.
	Date time.Time
}

// RecordPayment applies a payment to an invoice snapshot and returns the new
// snapshot. The input invoice is not modified. Scalar aggregates and the
// installment list always change together so the caller can persist them in a
// single write.
func RecordPayment(inv model.Invoice, in PaymentInput) (model.Invoice, error) {
	if inv.PaymentStatus == model.PaymentPaid {
		return model.Invoice{}, ErrInvoiceSettled
	}
	if in.Amount.IsNegative() || in.Amount.GreaterThan(inv.TotalAmount) {
		return model.Invoice{}, ErrInvalidAmount
	}

	if in.Method != "" {
		method := in.Method
		inv.PaymentMethod = &method
	}

	// Full payment settles the invoice and clears any plan.
	if in.Amount.GreaterThanOrEqual(inv.TotalAmount) {
		inv.AmountPaid = inv.TotalAmount
		inv.PaymentStatus = model.PaymentPaid
		inv.Installment = false
		inv.InstallmentCount = 1
		inv.InstallmentsRemaining = 0
		inv.InstallmentAmount = decimal.Zero
		inv.NextDueDate = nil
		inv.Installments = nil
		return inv, nil
	}

	if in.WantsInstallments && in.Method == model.MethodCreditCard {
		plan, err := GeneratePlan(inv.TotalAmount, in.Amount, in.InstallmentCount, in.Date)
		if err != nil {
			return model.Invoice{}, err
		}
		second := plan[1]
		due := second.DueDate
		inv.AmountPaid = in.Amount
		inv.PaymentStatus = DeriveStatus(inv.TotalAmount, in.Amount)
		inv.Installment = true
		inv.InstallmentCount = in.InstallmentCount
		inv.InstallmentsRemaining = in.InstallmentCount - 1
		inv.InstallmentAmount = second.Amount
		inv.NextDueDate = &due
		inv.Installments = plan
		return inv, nil
	}

	// Plain partial payment, no plan.
	inv.AmountPaid = in.Amount
	inv.PaymentStatus = DeriveStatus(inv.TotalAmount, in.Amount)
	inv.Installment = false
	inv.InstallmentCount = 1
	inv.InstallmentsRemaining = 0
	inv.InstallmentAmount = decimal.Zero
	inv.NextDueDate = nil
	inv.Installments = nil
	return inv, nil
}
