package billing

import (
	"fmt"
	"sort"
	"time"

	"dentalclinic/internal/model"
)

type forecastKey struct {
	year  int
	month time.Month
}

// ForecastReceivables projects future credit-card cash inflows. Only PARTIAL
// invoices with an active credit-card plan qualify; their PENDING installments
// are bucketed by due month across all invoices combined. Buckets come back
// sorted by year, then calendar month.
func ForecastReceivables(invoices []model.Invoice) []model.ReceivableForecast {
	buckets := make(map[forecastKey]*model.ReceivableForecast)

	for _, inv := range invoices {
		if inv.PaymentStatus != model.PaymentPartial || !inv.Installment {
			continue
		}
		if inv.PaymentMethod == nil || *inv.PaymentMethod != model.MethodCreditCard {
			continue
		}

		patient := "Unknown patient"
		if inv.Patient != nil {
			patient = inv.Patient.FullName()
		}
		procedure := "Unknown procedure"
		if inv.Procedure != nil {
			procedure = inv.Procedure.Name
		}

		for _, ins := range inv.Installments {
			if ins.Status != model.InstallmentPending {
				continue
			}

			key := forecastKey{year: ins.DueDate.Year(), month: ins.DueDate.Month()}
			bucket, ok := buckets[key]
			if !ok {
				bucket = &model.ReceivableForecast{
					Year:  key.year,
					Month: key.month.String(),
				}
				buckets[key] = bucket
			}

			bucket.TotalAmount = bucket.TotalAmount.Add(ins.Amount)
			bucket.InstallmentCount++
			bucket.Details = append(bucket.Details, model.ReceivableDetail{
				Patient:     patient,
				Procedure:   procedure,
				Amount:      ins.Amount,
				DueDate:     ins.DueDate.Format("2006-01-02"),
				Installment: fmt.Sprintf("%d/%d", ins.Number, inv.InstallmentCount),
			})
		}
	}

	keys := make([]forecastKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	forecast := make([]model.ReceivableForecast, 0, len(keys))
	for _, key := range keys {
		forecast = append(forecast, *buckets[key])
	}
	return forecast
}
