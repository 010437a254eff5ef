package service

import (
	"context"
	"fmt"
	"time"

	"dentalclinic/internal/model"
	"dentalclinic/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	Description   string `json:"description" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Category      string `json:"category" binding:"required,oneof=DENTAL_SUPPLIES EQUIPMENT SALARIES RENT UTILITIES MARKETING OTHER"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CASH CREDIT_CARD DEBIT_CARD PIX TRANSFER CHECK"`
}

type UpdateExpenseRequest struct {
	Description   *string `json:"description"`
	Amount        *string `json:"amount"`
	Category      *string `json:"category" binding:"omitempty,oneof=DENTAL_SUPPLIES EQUIPMENT SALARIES RENT UTILITIES MARKETING OTHER"`
	Date          *string `json:"date"`
	PaymentMethod *string `json:"payment_method" binding:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD PIX TRANSFER CHECK"`
}

type ExpenseFilter struct {
	Category string
	From     string // YYYY-MM-DD
	To       string // YYYY-MM-DD, inclusive
	Page     int
	Limit    int
}

type ExpenseResponse struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return ExpenseResponse{}, fmt.Errorf("amount must not be negative")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	expense := model.Expense{
		Description:   req.Description,
		Amount:        amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	}

	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return toExpenseResponse(expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.ExpenseListFilter{
		Category: filter.Category,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid from date: %w", err)
		}
		repoFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid to date: %w", err)
		}
		exclusive := to.AddDate(0, 0, 1)
		repoFilter.To = &exclusive
	}

	expenses, total, err := s.expenseRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		result = append(result, toExpenseResponse(expense))
	}
	return result, total, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}

	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("expense not found: %w", err)
	}

	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		amount, amountErr := decimal.NewFromString(*req.Amount)
		if amountErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", amountErr)
		}
		if amount.IsNegative() {
			return ExpenseResponse{}, fmt.Errorf("amount must not be negative")
		}
		expense.Amount = amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Date != nil {
		date, dateErr := time.Parse("2006-01-02", *req.Date)
		if dateErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid date: %w", dateErr)
		}
		expense.Date = date
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to update expense: %w", err)
	}

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expense id: %w", err)
	}
	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// --- Mapping ---

func toExpenseResponse(expense model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            expense.ID.String(),
		Description:   expense.Description,
		Amount:        expense.Amount.StringFixed(2),
		Category:      expense.Category,
		Date:          expense.Date.Format("2006-01-02"),
		PaymentMethod: expense.PaymentMethod,
		CreatedAt:     expense.CreatedAt.Format(time.RFC3339),
	}
}
