package billing

import (
	"testing"
	"time"

	"dentalclinic/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestGeneratePlan_EntryAndDueDates(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	plan, err := GeneratePlan(dec(t, "1000"), dec(t, "200"), 4, start)
	require.NoError(t, err)
	require.Len(t, plan, 4)

	assert.Equal(t, 1, plan[0].Number)
	assert.True(t, plan[0].Amount.Equal(dec(t, "200")), "entry payment is installment 1")
	assert.Equal(t, model.InstallmentPaid, plan[0].Status)
	assert.True(t, plan[0].DueDate.Equal(start))

	for i := 1; i < 4; i++ {
		assert.Equal(t, i+1, plan[i].Number)
		assert.Equal(t, model.InstallmentPending, plan[i].Status)
		assert.True(t, plan[i].DueDate.Equal(start.AddDate(0, 0, 30*i)))
	}
	assert.True(t, plan[3].DueDate.Equal(start.AddDate(0, 0, 90)), "last installment due 90 days out")
}

func TestGeneratePlan_AmountsSumToTotalExactly(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		total string
		entry string
		count int
	}{
		{"even split", "1000", "200", 5},
		{"repeating decimal", "1000", "200", 4}, // 800/3 does not divide evenly
		{"zero entry", "100", "0", 3},
		{"cent-level remainder", "999.99", "100", 7},
		{"entry equals total minus a cent", "500", "499.99", 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := dec(t, tc.total)
			plan, err := GeneratePlan(total, dec(t, tc.entry), tc.count, start)
			require.NoError(t, err)
			require.Len(t, plan, tc.count)

			sum := decimal.Zero
			for _, ins := range plan {
				sum = sum.Add(ins.Amount)
			}
			assert.True(t, sum.Equal(total), "sum %s != total %s", sum, total)

			for i := 1; i < len(plan); i++ {
				assert.False(t, plan[i].DueDate.Before(plan[i-1].DueDate), "due dates must not decrease")
			}
		})
	}
}

func TestGeneratePlan_RemainderGoesToFinalInstallment(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	// 800 / 3 = 266.66 rounded down; the final installment absorbs the 2 cents.
	plan, err := GeneratePlan(dec(t, "1000"), dec(t, "200"), 4, start)
	require.NoError(t, err)

	assert.True(t, plan[1].Amount.Equal(dec(t, "266.66")))
	assert.True(t, plan[2].Amount.Equal(dec(t, "266.66")))
	assert.True(t, plan[3].Amount.Equal(dec(t, "266.68")))
}

func TestGeneratePlan_InvalidInput(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := GeneratePlan(dec(t, "1000"), dec(t, "200"), 1, start)
	assert.ErrorIs(t, err, ErrInvalidInstallmentCount)

	_, err = GeneratePlan(dec(t, "1000"), dec(t, "1200"), 4, start)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = GeneratePlan(dec(t, "1000"), dec(t, "-1"), 4, start)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
