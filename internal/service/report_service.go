package service

import (
	"context"
	"fmt"
	"time"

	"dentalclinic/internal/billing"
	"dentalclinic/internal/model"
	"dentalclinic/internal/repository"
)

// --- DTOs ---

type ReportFilter struct {
	Period string // month, quarter, year or custom
	From   string // YYYY-MM-DD, required for custom
	To     string // YYYY-MM-DD inclusive, required for custom
}

// --- Interface ---

type ReportService interface {
	GenerateFinancialReport(ctx context.Context, filter ReportFilter) (model.FinancialReport, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	expenseRepo repository.ExpenseRepository
}

func NewReportService(invoiceRepo repository.InvoiceRepository, expenseRepo repository.ExpenseRepository) ReportService {
	return &reportService{invoiceRepo: invoiceRepo, expenseRepo: expenseRepo}
}

// --- Implementation ---

func (s *reportService) GenerateFinancialReport(ctx context.Context, filter ReportFilter) (model.FinancialReport, error) {
	window, err := resolveWindow(filter)
	if err != nil {
		return model.FinancialReport{}, err
	}

	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		From: &window.Start,
		To:   &window.End,
	})
	if err != nil {
		return model.FinancialReport{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	expenses, _, err := s.expenseRepo.List(ctx, repository.ExpenseListFilter{
		From: &window.Start,
		To:   &window.End,
	})
	if err != nil {
		return model.FinancialReport{}, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	return billing.GenerateReport(window, invoices, expenses), nil
}

func resolveWindow(filter ReportFilter) (billing.Window, error) {
	if filter.Period == billing.PeriodCustom {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return billing.Window{}, fmt.Errorf("%w: bad from date", billing.ErrInvalidPeriod)
		}
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return billing.Window{}, fmt.Errorf("%w: bad to date", billing.ErrInvalidPeriod)
		}
		return billing.CustomWindow(from, to)
	}
	return billing.ResolvePeriod(filter.Period, time.Now())
}
