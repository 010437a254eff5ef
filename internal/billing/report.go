package billing

import (
	"sort"
	"time"

	"dentalclinic/internal/model"

	"github.com/shopspring/decimal"
)

// revenueContribution applies the recognition rule: a PAID invoice counts in
// full, a PARTIAL one counts what was actually received, a PENDING one counts
// nothing.
func revenueContribution(inv model.Invoice) decimal.Decimal {
	switch inv.PaymentStatus {
	case model.PaymentPaid:
		return inv.TotalAmount
	case model.PaymentPartial:
		return inv.AmountPaid
	default:
		return decimal.Zero
	}
}

// GenerateReport aggregates revenue, expenses and profit for the window,
// broken down by category, payment method and month. Expenses always count in
// full regardless of any status. Every calendar month the window touches is
// pre-seeded so quiet months still show up as zero.
func GenerateReport(window Window, invoices []model.Invoice, expenses []model.Expense) model.FinancialReport {
	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero

	revenueByCategory := make(map[string]decimal.Decimal)
	expensesByCategory := make(map[string]decimal.Decimal)
	revenueByMethod := make(map[string]decimal.Decimal)
	expensesByMethod := make(map[string]decimal.Decimal)

	monthlyRevenue := make(map[string]decimal.Decimal)
	monthlyExpenses := make(map[string]decimal.Decimal)
	monthLabels := seedMonths(window, monthlyRevenue, monthlyExpenses)

	for _, inv := range invoices {
		if !window.Contains(inv.Date) {
			continue
		}
		contribution := revenueContribution(inv)
		if contribution.IsZero() {
			continue
		}

		totalRevenue = totalRevenue.Add(contribution)

		category := "Unknown procedure"
		if inv.Procedure != nil {
			category = inv.Procedure.Name
		}
		revenueByCategory[category] = revenueByCategory[category].Add(contribution)

		method := "UNSPECIFIED"
		if inv.PaymentMethod != nil {
			method = *inv.PaymentMethod
		}
		revenueByMethod[method] = revenueByMethod[method].Add(contribution)

		month := monthLabel(inv.Date)
		monthlyRevenue[month] = monthlyRevenue[month].Add(contribution)
	}

	for _, exp := range expenses {
		if !window.Contains(exp.Date) {
			continue
		}

		totalExpenses = totalExpenses.Add(exp.Amount)
		expensesByCategory[exp.Category] = expensesByCategory[exp.Category].Add(exp.Amount)

		method := exp.PaymentMethod
		if method == "" {
			method = "UNSPECIFIED"
		}
		expensesByMethod[method] = expensesByMethod[method].Add(exp.Amount)

		month := monthLabel(exp.Date)
		monthlyExpenses[month] = monthlyExpenses[month].Add(exp.Amount)
	}

	return model.FinancialReport{
		Period:             window.Label,
		TotalRevenue:       totalRevenue,
		TotalExpenses:      totalExpenses,
		Profit:             totalRevenue.Sub(totalExpenses),
		RevenueByCategory:  sortedBreakdown(revenueByCategory),
		ExpensesByCategory: sortedBreakdown(expensesByCategory),
		RevenueByMethod:    sortedBreakdown(revenueByMethod),
		ExpensesByMethod:   sortedBreakdown(expensesByMethod),
		MonthlyRevenue:     orderedMonths(monthLabels, monthlyRevenue),
		MonthlyExpenses:    orderedMonths(monthLabels, monthlyExpenses),
	}
}

func monthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// seedMonths zeroes out every month the window touches and returns the labels
// in chronological order.
func seedMonths(window Window, targets ...map[string]decimal.Decimal) []string {
	var labels []string
	cursor := time.Date(window.Start.Year(), window.Start.Month(), 1, 0, 0, 0, 0, window.Start.Location())
	for cursor.Before(window.End) {
		label := monthLabel(cursor)
		labels = append(labels, label)
		for _, target := range targets {
			target[label] = decimal.Zero
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return labels
}

func orderedMonths(labels []string, amounts map[string]decimal.Decimal) []model.MonthlyAmount {
	rows := make([]model.MonthlyAmount, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, model.MonthlyAmount{Month: label, Amount: amounts[label]})
	}
	return rows
}

func sortedBreakdown(amounts map[string]decimal.Decimal) []model.CategoryAmount {
	rows := make([]model.CategoryAmount, 0, len(amounts))
	for category, amount := range amounts {
		rows = append(rows, model.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}
