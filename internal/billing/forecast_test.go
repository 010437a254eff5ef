package billing

import (
	"testing"
	"time"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastInvoice(t *testing.T, patient, procedure, total, entry string, count int, start time.Time) model.Invoice {
	t.Helper()
	method := model.MethodCreditCard
	inv := model.Invoice{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		Patient:       &model.Patient{ID: uuid.New(), FirstName: patient, LastName: "Teste"},
		Procedure:     &model.Procedure{ID: uuid.New(), Name: procedure},
		TotalAmount:   dec(t, total),
		PaymentStatus: model.PaymentPending,
		PaymentMethod: &method,
	}
	out, err := RecordPayment(inv, PaymentInput{
		Amount:            dec(t, entry),
		Method:            model.MethodCreditCard,
		WantsInstallments: true,
		InstallmentCount:  count,
		Date:              start,
	})
	require.NoError(t, err)
	return out
}

func TestForecastReceivables_BucketsByDueMonth(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	inv := forecastInvoice(t, "Carla", "Implante", "1200", "300", 4, start)

	forecast := ForecastReceivables([]model.Invoice{inv})
	require.Len(t, forecast, 3)

	// Due dates fall on Apr 9, May 9 and Jun 8.
	assert.Equal(t, "April", forecast[0].Month)
	assert.Equal(t, 2026, forecast[0].Year)
	assert.Equal(t, "May", forecast[1].Month)
	assert.Equal(t, "June", forecast[2].Month)

	for _, bucket := range forecast {
		assert.True(t, bucket.TotalAmount.Equal(dec(t, "300")))
		assert.Equal(t, 1, bucket.InstallmentCount)
		require.Len(t, bucket.Details, 1)
		assert.Equal(t, "Carla Teste", bucket.Details[0].Patient)
		assert.Equal(t, "Implante", bucket.Details[0].Procedure)
	}
	assert.Equal(t, "2/4", forecast[0].Details[0].Installment)
	assert.Equal(t, "2026-04-09", forecast[0].Details[0].DueDate)
	assert.Equal(t, "4/4", forecast[2].Details[0].Installment)
}

func TestForecastReceivables_CombinesInvoicesInSameMonth(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	first := forecastInvoice(t, "Carla", "Implante", "1200", "300", 4, start)
	second := forecastInvoice(t, "Diego", "Canal", "600", "200", 3, start)

	forecast := ForecastReceivables([]model.Invoice{first, second})
	require.NotEmpty(t, forecast)

	april := forecast[0]
	assert.Equal(t, "April", april.Month)
	assert.Equal(t, 2, april.InstallmentCount)
	assert.True(t, april.TotalAmount.Equal(dec(t, "500")), "300 + 200 due in April")
	require.Len(t, april.Details, 2)
}

func TestForecastReceivables_SortedByYearThenCalendarMonth(t *testing.T) {
	nov := forecastInvoice(t, "Ana", "Limpeza", "400", "200", 2, time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC))
	feb := forecastInvoice(t, "Bia", "Clareamento", "400", "200", 2, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC))
	dec26 := forecastInvoice(t, "Caio", "Extracao", "400", "200", 2, time.Date(2026, time.November, 15, 0, 0, 0, 0, time.UTC))

	forecast := ForecastReceivables([]model.Invoice{feb, nov, dec26})
	require.Len(t, forecast, 3)

	assert.Equal(t, 2026, forecast[0].Year)
	assert.Equal(t, "November", forecast[0].Month)
	assert.Equal(t, 2026, forecast[1].Year)
	assert.Equal(t, "December", forecast[1].Month)
	assert.Equal(t, 2027, forecast[2].Year)
	assert.Equal(t, "February", forecast[2].Month)
}

func TestForecastReceivables_NonQualifyingInvoicesExcluded(t *testing.T) {
	pix := model.MethodPix

	settled := forecastInvoice(t, "Ana", "Limpeza", "400", "200", 2, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	var err error
	settled, err = ToggleInstallment(settled, 2, model.InstallmentPaid)
	require.NoError(t, err)

	noPlan := model.Invoice{
		ID:            uuid.New(),
		TotalAmount:   dec(t, "500"),
		AmountPaid:    dec(t, "100"),
		PaymentStatus: model.PaymentPartial,
		PaymentMethod: &pix,
	}

	pending := model.Invoice{
		ID:            uuid.New(),
		TotalAmount:   dec(t, "500"),
		PaymentStatus: model.PaymentPending,
	}

	forecast := ForecastReceivables([]model.Invoice{settled, noPlan, pending})
	assert.Empty(t, forecast)
}
