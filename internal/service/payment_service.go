package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalclinic/internal/billing"
	"dentalclinic/internal/model"
	"dentalclinic/internal/repository"
	"dentalclinic/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice writes go through a version compare-and-swap; a conflict means
// another request changed the invoice between our read and write, so we reload
// and recompute. Three attempts is plenty for a small clinic's edit rate.
const maxWriteAttempts = 3

// --- DTOs ---

type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=CASH CREDIT_CARD DEBIT_CARD PIX TRANSFER CHECK"`
	// Installments requests a credit-card plan; InstallmentCount includes the
	// entry payment as installment 1.
	Installments     bool `json:"installments"`
	InstallmentCount int  `json:"installment_count"`
}

type ToggleInstallmentRequest struct {
	Status string `json:"status" binding:"required,oneof=PAID PENDING"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, invoiceID string, req RecordPaymentRequest) (InvoiceResponse, error)
	ToggleInstallment(ctx context.Context, invoiceID string, number int, req ToggleInstallmentRequest) (InvoiceResponse, error)
}

type paymentService struct {
	invoiceRepo repository.InvoiceRepository
	txManager   repository.TransactionManager
	hub         *websocket.Hub
}

func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) PaymentService {
	return &paymentService{
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *paymentService) RecordPayment(ctx context.Context, invoiceID string, req RecordPaymentRequest) (InvoiceResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid amount: %w", err)
	}

	input := billing.PaymentInput{
		Amount:            amount,
		Method:            req.Method,
		WantsInstallments: req.Installments,
		InstallmentCount:  req.InstallmentCount,
		Date:              today(),
	}

	return s.mutateInvoice(ctx, invoiceID, websocket.EventPaymentRecorded, func(inv model.Invoice) (model.Invoice, error) {
		return billing.RecordPayment(inv, input)
	})
}

func (s *paymentService) ToggleInstallment(ctx context.Context, invoiceID string, number int, req ToggleInstallmentRequest) (InvoiceResponse, error) {
	return s.mutateInvoice(ctx, invoiceID, websocket.EventInstallmentToggled, func(inv model.Invoice) (model.Invoice, error) {
		return billing.ToggleInstallment(inv, number, req.Status)
	})
}

// mutateInvoice is the shared read-compute-write loop: load a fresh snapshot,
// run the engine, persist with the version guard, retry on conflict. The
// engine is pure, so re-running it against a reloaded snapshot is safe.
func (s *paymentService) mutateInvoice(
	ctx context.Context,
	invoiceID string,
	eventType string,
	mutate func(model.Invoice) (model.Invoice, error),
) (InvoiceResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var updated model.Invoice
	for attempt := 1; ; attempt++ {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			invoice, findErr := s.invoiceRepo.FindByID(txCtx, id)
			if findErr != nil {
				return fmt.Errorf("invoice not found: %w", findErr)
			}

			next, mutateErr := mutate(*invoice)
			if mutateErr != nil {
				return mutateErr
			}

			if updateErr := s.invoiceRepo.UpdatePayment(txCtx, &next); updateErr != nil {
				return updateErr
			}
			updated = next
			return nil
		})

		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < maxWriteAttempts {
			continue
		}
		return InvoiceResponse{}, err
	}

	s.hub.BroadcastEvent(websocket.Event{
		Type:          eventType,
		InvoiceID:     updated.ID.String(),
		PaymentStatus: updated.PaymentStatus,
		AmountPaid:    updated.AmountPaid.StringFixed(2),
	})

	reloaded, err := s.invoiceRepo.FindByIDWithRelations(ctx, updated.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

// today returns the current date truncated to midnight, the plan start date.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
