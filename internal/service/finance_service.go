package service

import (
	"context"
	"fmt"

	"dentalclinic/internal/billing"
	"dentalclinic/internal/model"
	"dentalclinic/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// FinanceSummary backs the dashboard cards: recognized revenue, expenses,
// the running balance and the amount still owed by patients.
type FinanceSummary struct {
	TotalRevenue  string `json:"total_revenue"`
	TotalExpenses string `json:"total_expenses"`
	Balance       string `json:"balance"`
	TotalPending  string `json:"total_pending"`
}

// --- Interface ---

// FinanceService exposes the read-only reconciliation views. Every call works
// on a fresh snapshot and holds no state, so concurrent report reads never
// block payment writers.
type FinanceService interface {
	OutstandingBalances(ctx context.Context) ([]model.OutstandingBalance, error)
	ReceivablesForecast(ctx context.Context) ([]model.ReceivableForecast, error)
	Summary(ctx context.Context) (FinanceSummary, error)
}

type financeService struct {
	invoiceRepo repository.InvoiceRepository
	expenseRepo repository.ExpenseRepository
}

func NewFinanceService(invoiceRepo repository.InvoiceRepository, expenseRepo repository.ExpenseRepository) FinanceService {
	return &financeService{invoiceRepo: invoiceRepo, expenseRepo: expenseRepo}
}

// --- Implementation ---

func (s *financeService) OutstandingBalances(ctx context.Context) ([]model.OutstandingBalance, error) {
	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		PaymentStatuses: []string{model.PaymentPending, model.PaymentPartial},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsettled invoices: %w", err)
	}

	return billing.ComputeOutstandingBalances(invoices), nil
}

func (s *financeService) ReceivablesForecast(ctx context.Context) ([]model.ReceivableForecast, error) {
	installment := true
	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		PaymentStatuses: []string{model.PaymentPartial},
		PaymentMethod:   model.MethodCreditCard,
		Installment:     &installment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch installment invoices: %w", err)
	}

	return billing.ForecastReceivables(invoices), nil
}

func (s *financeService) Summary(ctx context.Context) (FinanceSummary, error) {
	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{})
	if err != nil {
		return FinanceSummary{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	expenses, _, err := s.expenseRepo.List(ctx, repository.ExpenseListFilter{})
	if err != nil {
		return FinanceSummary{}, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	revenue := decimal.Zero
	pending := decimal.Zero
	for _, inv := range invoices {
		switch inv.PaymentStatus {
		case model.PaymentPaid:
			revenue = revenue.Add(inv.TotalAmount)
		case model.PaymentPartial:
			revenue = revenue.Add(inv.AmountPaid)
			pending = pending.Add(inv.TotalAmount.Sub(inv.AmountPaid))
		case model.PaymentPending:
			pending = pending.Add(inv.TotalAmount)
		}
	}

	spent := decimal.Zero
	for _, expense := range expenses {
		spent = spent.Add(expense.Amount)
	}

	return FinanceSummary{
		TotalRevenue:  revenue.StringFixed(2),
		TotalExpenses: spent.StringFixed(2),
		Balance:       revenue.Sub(spent).StringFixed(2),
		TotalPending:  pending.StringFixed(2),
	}, nil
}
