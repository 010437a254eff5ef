package billing

import (
	"time"

	"dentalclinic/internal/model"

	"github.com/shopspring/decimal"
)

// Installments are spaced a fixed 30 days apart, not calendar-month aligned.
const installmentCadenceDays = 30

// GeneratePlan builds an installment schedule for totalAmount starting at
// startDate. Installment 1 is the entry payment, due startDate and already
// PAID; the remaining balance is split across installments 2..count, each due
// 30 days after the previous one.
//
// Rounding: installments 2..count-1 get the per-installment quotient rounded
// down to cents; the final installment absorbs the leftover cents, so the
// amounts always sum to totalAmount exactly.
func GeneratePlan(totalAmount, entryPayment decimal.Decimal, count int, startDate time.Time) ([]model.Installment, error) {
	if count < 2 {
		return nil, ErrInvalidInstallmentCount
	}
	if entryPayment.IsNegative() || entryPayment.GreaterThan(totalAmount) {
		return nil, ErrInvalidAmount
	}

	remaining := totalAmount.Sub(entryPayment)
	per := remaining.Div(decimal.NewFromInt(int64(count - 1))).RoundDown(2)

	plan := make([]model.Installment, 0, count)
	plan = append(plan, model.Installment{
		Number:  1,
		Amount:  entryPayment,
		DueDate: startDate,
		Status:  model.InstallmentPaid,
	})

	allocated := decimal.Zero
	for i := 2; i <= count; i++ {
		amount := per
		if i == count {
			amount = remaining.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		plan = append(plan, model.Installment{
			Number:  i,
			Amount:  amount,
			DueDate: startDate.AddDate(0, 0, installmentCadenceDays*(i-1)),
			Status:  model.InstallmentPending,
		})
	}

	return plan, nil
}
