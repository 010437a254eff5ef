package billing

import (
	"sort"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
)

// ComputeOutstandingBalances groups unsettled invoices by patient and sums
// what each patient was billed versus what they have paid. Invoices that are
// already PAID contribute nothing and are skipped. Output is sorted by patient
// id so identical input always produces identical output.
func ComputeOutstandingBalances(invoices []model.Invoice) []model.OutstandingBalance {
	byPatient := make(map[uuid.UUID]*model.OutstandingBalance)

	for _, inv := range invoices {
		if inv.PaymentStatus != model.PaymentPending && inv.PaymentStatus != model.PaymentPartial {
			continue
		}

		entry, ok := byPatient[inv.PatientID]
		if !ok {
			entry = &model.OutstandingBalance{PatientID: inv.PatientID}
			if inv.Patient != nil {
				entry.PatientName = inv.Patient.FullName()
			}
			byPatient[inv.PatientID] = entry
		}

		entry.TotalBilled = entry.TotalBilled.Add(inv.TotalAmount)
		entry.TotalPaid = entry.TotalPaid.Add(inv.AmountPaid)
		entry.PendingInvoices++
	}

	balances := make([]model.OutstandingBalance, 0, len(byPatient))
	for _, entry := range byPatient {
		entry.Balance = entry.TotalBilled.Sub(entry.TotalPaid)
		balances = append(balances, *entry)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].PatientID.String() < balances[j].PatientID.String()
	})

	return balances
}
