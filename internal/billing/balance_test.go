package billing

import (
	"testing"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceInvoice(t *testing.T, patient *model.Patient, total, paid, status string) model.Invoice {
	t.Helper()
	return model.Invoice{
		ID:            uuid.New(),
		PatientID:     patient.ID,
		Patient:       patient,
		TotalAmount:   dec(t, total),
		AmountPaid:    dec(t, paid),
		PaymentStatus: status,
	}
}

func TestComputeOutstandingBalances_SettledInvoicesExcluded(t *testing.T) {
	alice := &model.Patient{ID: uuid.New(), FirstName: "Alice", LastName: "Souza"}
	bruno := &model.Patient{ID: uuid.New(), FirstName: "Bruno", LastName: "Lima"}

	invoices := []model.Invoice{
		balanceInvoice(t, alice, "500", "200", model.PaymentPartial),
		balanceInvoice(t, bruno, "300", "300", model.PaymentPaid),
	}

	balances := ComputeOutstandingBalances(invoices)
	require.Len(t, balances, 1)

	got := balances[0]
	assert.Equal(t, alice.ID, got.PatientID)
	assert.Equal(t, "Alice Souza", got.PatientName)
	assert.True(t, got.TotalBilled.Equal(dec(t, "500")))
	assert.True(t, got.TotalPaid.Equal(dec(t, "200")))
	assert.True(t, got.Balance.Equal(dec(t, "300")))
	assert.Equal(t, 1, got.PendingInvoices)
}

func TestComputeOutstandingBalances_AggregatesPerPatient(t *testing.T) {
	alice := &model.Patient{ID: uuid.New(), FirstName: "Alice", LastName: "Souza"}

	invoices := []model.Invoice{
		balanceInvoice(t, alice, "500", "200", model.PaymentPartial),
		balanceInvoice(t, alice, "150", "0", model.PaymentPending),
		balanceInvoice(t, alice, "800", "800", model.PaymentPaid),
	}

	balances := ComputeOutstandingBalances(invoices)
	require.Len(t, balances, 1)

	got := balances[0]
	assert.True(t, got.TotalBilled.Equal(dec(t, "650")))
	assert.True(t, got.TotalPaid.Equal(dec(t, "200")))
	assert.True(t, got.Balance.Equal(dec(t, "450")))
	assert.Equal(t, 2, got.PendingInvoices)
}

func TestComputeOutstandingBalances_SortedByPatientID(t *testing.T) {
	a := &model.Patient{ID: uuid.New(), FirstName: "A", LastName: "A"}
	b := &model.Patient{ID: uuid.New(), FirstName: "B", LastName: "B"}
	c := &model.Patient{ID: uuid.New(), FirstName: "C", LastName: "C"}

	invoices := []model.Invoice{
		balanceInvoice(t, c, "100", "0", model.PaymentPending),
		balanceInvoice(t, a, "100", "0", model.PaymentPending),
		balanceInvoice(t, b, "100", "0", model.PaymentPending),
	}

	balances := ComputeOutstandingBalances(invoices)
	require.Len(t, balances, 3)
	for i := 1; i < len(balances); i++ {
		assert.Less(t, balances[i-1].PatientID.String(), balances[i].PatientID.String())
	}
}

func TestComputeOutstandingBalances_Empty(t *testing.T) {
	assert.Empty(t, ComputeOutstandingBalances(nil))

	paid := &model.Patient{ID: uuid.New(), FirstName: "Paid", LastName: "Up"}
	only := []model.Invoice{balanceInvoice(t, paid, "300", "300", model.PaymentPaid)}
	assert.Empty(t, ComputeOutstandingBalances(only))
}
