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

type CreateInvoiceRequest struct {
	PatientID   string `json:"patient_id" binding:"required"`
	ProcedureID string `json:"procedure_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	TotalAmount string `json:"total_amount"`            // optional, defaults to the procedure price
}

type InvoiceFilter struct {
	PaymentStatus string // PENDING, PARTIAL, PAID or empty for all
	PatientID     string
	From          string // YYYY-MM-DD
	To            string // YYYY-MM-DD, inclusive
	Page          int
	Limit         int
}

type InstallmentResponse struct {
	Number  int    `json:"number"`
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
	Status  string `json:"status"`
}

type InvoiceResponse struct {
	ID                    string                `json:"id"`
	PatientID             string                `json:"patient_id"`
	PatientName           string                `json:"patient_name,omitempty"`
	ProcedureID           string                `json:"procedure_id"`
	ProcedureName         string                `json:"procedure_name,omitempty"`
	Date                  string                `json:"date"`
	TotalAmount           string                `json:"total_amount"`
	AmountPaid            string                `json:"amount_paid"`
	PaymentStatus         string                `json:"payment_status"`
	PaymentMethod         *string               `json:"payment_method"`
	Installment           bool                  `json:"installment"`
	InstallmentCount      int                   `json:"installment_count"`
	InstallmentsRemaining int                   `json:"installments_remaining"`
	InstallmentAmount     string                `json:"installment_amount"`
	NextDueDate           *string               `json:"next_due_date"`
	Installments          []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt             string                `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	patientRepo   repository.PatientRepository
	procedureRepo repository.ProcedureRepository
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	procedureRepo repository.ProcedureRepository,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		patientRepo:   patientRepo,
		procedureRepo: procedureRepo,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid patient_id: %w", err)
	}
	procedureID, err := uuid.Parse(req.ProcedureID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid procedure_id: %w", err)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	if _, err := s.patientRepo.FindByID(ctx, patientID); err != nil {
		return InvoiceResponse{}, fmt.Errorf("patient not found: %w", err)
	}
	procedure, err := s.procedureRepo.FindByID(ctx, procedureID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("procedure not found: %w", err)
	}

	total := procedure.Price
	if req.TotalAmount != "" {
		total, err = decimal.NewFromString(req.TotalAmount)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid total_amount: %w", err)
		}
	}
	if total.IsNegative() {
		return InvoiceResponse{}, fmt.Errorf("total_amount must not be negative")
	}

	// Every invoice starts unpaid; payment state only changes through the
	// billing engine afterwards.
	invoice := model.Invoice{
		PatientID:        patientID,
		ProcedureID:      procedureID,
		Date:             date,
		TotalAmount:      total,
		AmountPaid:       decimal.Zero,
		PaymentStatus:    model.PaymentPending,
		InstallmentCount: 1,
		Version:          1,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	reloaded, err := s.invoiceRepo.FindByIDWithRelations(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}

	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithRelations(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.PaymentStatus != "" {
		repoFilter.PaymentStatuses = []string{filter.PaymentStatus}
	}
	if filter.PatientID != "" {
		patientID, err := uuid.Parse(filter.PatientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid patient_id: %w", err)
		}
		repoFilter.PatientID = &patientID
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

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}
	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                    inv.ID.String(),
		PatientID:             inv.PatientID.String(),
		ProcedureID:           inv.ProcedureID.String(),
		Date:                  inv.Date.Format("2006-01-02"),
		TotalAmount:           inv.TotalAmount.StringFixed(2),
		AmountPaid:            inv.AmountPaid.StringFixed(2),
		PaymentStatus:         inv.PaymentStatus,
		PaymentMethod:         inv.PaymentMethod,
		Installment:           inv.Installment,
		InstallmentCount:      inv.InstallmentCount,
		InstallmentsRemaining: inv.InstallmentsRemaining,
		InstallmentAmount:     inv.InstallmentAmount.StringFixed(2),
		CreatedAt:             inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.Patient != nil {
		resp.PatientName = inv.Patient.FullName()
	}
	if inv.Procedure != nil {
		resp.ProcedureName = inv.Procedure.Name
	}
	if inv.NextDueDate != nil {
		due := inv.NextDueDate.Format("2006-01-02")
		resp.NextDueDate = &due
	}
	for _, ins := range inv.Installments {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			Number:  ins.Number,
			Amount:  ins.Amount.StringFixed(2),
			DueDate: ins.DueDate.Format("2006-01-02"),
			Status:  ins.Status,
		})
	}

	return resp
}
