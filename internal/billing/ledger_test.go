package billing

import (
	"testing"
	"time"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planInvoice builds a credit-card invoice with a 4x300 plan, entry paid.
func planInvoice(t *testing.T) model.Invoice {
	t.Helper()
	inv := model.Invoice{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		ProcedureID:   uuid.New(),
		Date:          time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:   dec(t, "1200"),
		PaymentStatus: model.PaymentPending,
		Version:       1,
	}
	out, err := RecordPayment(inv, PaymentInput{
		Amount:            dec(t, "300"),
		Method:            model.MethodCreditCard,
		WantsInstallments: true,
		InstallmentCount:  4,
		Date:              inv.Date,
	})
	require.NoError(t, err)
	return out
}

func TestToggleInstallment_PayNextRecomputesAggregates(t *testing.T) {
	inv := planInvoice(t)

	out, err := ToggleInstallment(inv, 2, model.InstallmentPaid)
	require.NoError(t, err)

	assert.True(t, out.AmountPaid.Equal(dec(t, "600")))
	assert.Equal(t, 2, out.InstallmentsRemaining)
	assert.Equal(t, model.PaymentPartial, out.PaymentStatus)
	require.NotNil(t, out.NextDueDate)
	assert.True(t, out.NextDueDate.Equal(inv.Date.AddDate(0, 0, 60)), "next due moves to installment 3")
}

func TestToggleInstallment_AllPaidSettlesInvoice(t *testing.T) {
	inv := planInvoice(t)

	var err error
	for n := 2; n <= 4; n++ {
		inv, err = ToggleInstallment(inv, n, model.InstallmentPaid)
		require.NoError(t, err)
	}

	assert.Equal(t, model.PaymentPaid, inv.PaymentStatus)
	assert.True(t, inv.AmountPaid.Equal(inv.TotalAmount))
	assert.Equal(t, 0, inv.InstallmentsRemaining)
	assert.Nil(t, inv.NextDueDate)
}

func TestToggleInstallment_UnpayReopensInvoice(t *testing.T) {
	inv := planInvoice(t)

	inv, err := ToggleInstallment(inv, 2, model.InstallmentPaid)
	require.NoError(t, err)

	out, err := ToggleInstallment(inv, 2, model.InstallmentPending)
	require.NoError(t, err)

	assert.True(t, out.AmountPaid.Equal(dec(t, "300")))
	assert.Equal(t, 3, out.InstallmentsRemaining)
	assert.Equal(t, model.PaymentPartial, out.PaymentStatus)
	require.NotNil(t, out.NextDueDate)
	assert.True(t, out.NextDueDate.Equal(inv.Date.AddDate(0, 0, 30)))
}

func TestToggleInstallment_Idempotent(t *testing.T) {
	inv := planInvoice(t)

	once, err := ToggleInstallment(inv, 2, model.InstallmentPaid)
	require.NoError(t, err)
	twice, err := ToggleInstallment(once, 2, model.InstallmentPaid)
	require.NoError(t, err)

	assert.True(t, twice.AmountPaid.Equal(once.AmountPaid))
	assert.Equal(t, once.InstallmentsRemaining, twice.InstallmentsRemaining)
	assert.Equal(t, once.PaymentStatus, twice.PaymentStatus)
}

func TestToggleInstallment_PayingOutOfOrderRejected(t *testing.T) {
	inv := planInvoice(t)

	// Installment 2 is still pending.
	_, err := ToggleInstallment(inv, 3, model.InstallmentPaid)
	assert.ErrorIs(t, err, ErrInstallmentOrderViolation)
}

func TestToggleInstallment_UnpayingBeforeLaterPaidRejected(t *testing.T) {
	inv := planInvoice(t)

	inv, err := ToggleInstallment(inv, 2, model.InstallmentPaid)
	require.NoError(t, err)

	// Installment 2 is paid, so the entry cannot be reverted first.
	_, err = ToggleInstallment(inv, 1, model.InstallmentPending)
	assert.ErrorIs(t, err, ErrInstallmentOrderViolation)
}

func TestToggleInstallment_UnknownNumber(t *testing.T) {
	inv := planInvoice(t)

	_, err := ToggleInstallment(inv, 9, model.InstallmentPaid)
	assert.ErrorIs(t, err, ErrInstallmentNotFound)
}

func TestToggleInstallment_InvalidStatus(t *testing.T) {
	inv := planInvoice(t)

	_, err := ToggleInstallment(inv, 2, "SETTLED")
	assert.ErrorIs(t, err, ErrInvalidInstallmentStatus)
}

func TestToggleInstallment_DoesNotMutateInput(t *testing.T) {
	inv := planInvoice(t)
	before := inv.AmountPaid

	_, err := ToggleInstallment(inv, 2, model.InstallmentPaid)
	require.NoError(t, err)

	assert.True(t, inv.AmountPaid.Equal(before))
	assert.Equal(t, model.InstallmentPending, inv.Installments[1].Status)
}

func TestToggleInstallment_UnevenPlanKeepsExactSum(t *testing.T) {
	inv := model.Invoice{
		ID:            uuid.New(),
		TotalAmount:   dec(t, "1000"),
		PaymentStatus: model.PaymentPending,
		Date:          time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	inv, err := RecordPayment(inv, PaymentInput{
		Amount:            dec(t, "200"),
		Method:            model.MethodCreditCard,
		WantsInstallments: true,
		InstallmentCount:  4,
		Date:              inv.Date,
	})
	require.NoError(t, err)

	for n := 2; n <= 4; n++ {
		inv, err = ToggleInstallment(inv, n, model.InstallmentPaid)
		require.NoError(t, err)
	}

	assert.True(t, inv.AmountPaid.Equal(dec(t, "1000")), "rounded schedule still sums to the total")
	assert.Equal(t, model.PaymentPaid, inv.PaymentStatus)

	total := decimal.Zero
	for _, ins := range inv.Installments {
		total = total.Add(ins.Amount)
	}
	assert.True(t, total.Equal(inv.TotalAmount))
}
