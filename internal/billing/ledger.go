package billing

import (
	"dentalclinic/internal/model"

	"github.com/shopspring/decimal"
)

// ToggleInstallment flips one installment between PAID and PENDING and
// re-derives every aggregate field from the resulting list. Paid installments
// always form a prefix of the sequence: paying out of order, or un-paying an
// installment while a later one is still paid, is rejected.
//
// The input invoice is not modified; a new snapshot is returned. Toggling an
// installment to the status it already has is a no-op and succeeds.
func ToggleInstallment(inv model.Invoice, number int, newStatus string) (model.Invoice, error) {
	if newStatus != model.InstallmentPaid && newStatus != model.InstallmentPending {
		return model.Invoice{}, ErrInvalidInstallmentStatus
	}

	target := -1
	for i, ins := range inv.Installments {
		if ins.Number == number {
			target = i
			break
		}
	}
	if target < 0 {
		return model.Invoice{}, ErrInstallmentNotFound
	}

	if newStatus == model.InstallmentPaid {
		for _, ins := range inv.Installments {
			if ins.Number < number && ins.Status == model.InstallmentPending {
				return model.Invoice{}, ErrInstallmentOrderViolation
			}
		}
	} else {
		for _, ins := range inv.Installments {
			if ins.Number > number && ins.Status == model.InstallmentPaid {
				return model.Invoice{}, ErrInstallmentOrderViolation
			}
		}
	}

	installments := make([]model.Installment, len(inv.Installments))
	copy(installments, inv.Installments)
	installments[target].Status = newStatus

	amountPaid := decimal.Zero
	remaining := 0
	var nextDue *model.Installment
	for i := range installments {
		if installments[i].Status == model.InstallmentPaid {
			amountPaid = amountPaid.Add(installments[i].Amount)
		} else {
			remaining++
			if nextDue == nil {
				nextDue = &installments[i]
			}
		}
	}

	inv.Installments = installments
	inv.AmountPaid = amountPaid
	inv.InstallmentsRemaining = remaining
	inv.PaymentStatus = DeriveStatus(inv.TotalAmount, amountPaid)
	if nextDue != nil {
		due := nextDue.DueDate
		inv.NextDueDate = &due
	} else {
		inv.NextDueDate = nil
	}

	return inv, nil
}
