package service

import (
	"context"
	"testing"
	"time"

	"dentalclinic/internal/billing"
	"dentalclinic/internal/model"
	"dentalclinic/internal/repository"
	"dentalclinic/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeInvoiceRepo keeps one invoice in memory and can be told to fail the
// next N writes with a version conflict, mimicking a concurrent editor.
type fakeInvoiceRepo struct {
	invoice       *model.Invoice
	conflictsLeft int
	updateCalls   int
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	f.invoice = invoice
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	if f.invoice == nil || f.invoice.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *f.invoice
	return &snapshot, nil
}

func (f *fakeInvoiceRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	if f.invoice == nil {
		return nil, 0, nil
	}
	return []model.Invoice{*f.invoice}, 1, nil
}

func (f *fakeInvoiceRepo) UpdatePayment(ctx context.Context, invoice *model.Invoice) error {
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		// Simulate the other writer: bump the stored version so the retry
		// reads fresh state.
		f.invoice.Version++
		return repository.ErrVersionConflict
	}
	invoice.Version++
	snapshot := *invoice
	f.invoice = &snapshot
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.invoice == nil || f.invoice.ID != id {
		return gorm.ErrRecordNotFound
	}
	f.invoice = nil
	return nil
}

// fakeTxManager runs the unit of work directly, no database involved.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func testHub(t *testing.T) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub()
	go hub.Run()
	return hub
}

func pendingInvoice(total string) *model.Invoice {
	amount, _ := decimal.NewFromString(total)
	return &model.Invoice{
		ID:               uuid.New(),
		PatientID:        uuid.New(),
		ProcedureID:      uuid.New(),
		Date:             time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:      amount,
		AmountPaid:       decimal.Zero,
		PaymentStatus:    model.PaymentPending,
		InstallmentCount: 1,
		Version:          1,
	}
}

func TestRecordPayment_PersistsAndSettles(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("500")}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))

	resp, err := svc.RecordPayment(context.Background(), repo.invoice.ID.String(), RecordPaymentRequest{
		Amount: "500",
		Method: model.MethodPix,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus)
	assert.Equal(t, "500.00", resp.AmountPaid)
	assert.Equal(t, model.PaymentPaid, repo.invoice.PaymentStatus)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestRecordPayment_RetriesOnVersionConflict(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("500"), conflictsLeft: 2}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))

	resp, err := svc.RecordPayment(context.Background(), repo.invoice.ID.String(), RecordPaymentRequest{
		Amount: "200",
		Method: model.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, repo.updateCalls, "two conflicts then a clean write")
	assert.Equal(t, model.PaymentPartial, resp.PaymentStatus)
	assert.Equal(t, "200.00", resp.AmountPaid)
}

func TestRecordPayment_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("500"), conflictsLeft: 10}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))

	_, err := svc.RecordPayment(context.Background(), repo.invoice.ID.String(), RecordPaymentRequest{
		Amount: "200",
		Method: model.MethodCash,
	})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	assert.Equal(t, maxWriteAttempts, repo.updateCalls)
}

func TestRecordPayment_EngineErrorsPropagate(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("500")}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))

	_, err := svc.RecordPayment(context.Background(), repo.invoice.ID.String(), RecordPaymentRequest{
		Amount: "900",
		Method: model.MethodCash,
	})
	assert.ErrorIs(t, err, billing.ErrInvalidAmount)
	assert.Equal(t, 0, repo.updateCalls, "nothing is written when the engine rejects")
}

func TestRecordPayment_BadInput(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("500")}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))

	_, err := svc.RecordPayment(context.Background(), "not-a-uuid", RecordPaymentRequest{Amount: "100", Method: model.MethodCash})
	assert.Error(t, err)

	_, err = svc.RecordPayment(context.Background(), repo.invoice.ID.String(), RecordPaymentRequest{Amount: "abc", Method: model.MethodCash})
	assert.Error(t, err)

	_, err = svc.RecordPayment(context.Background(), uuid.NewString(), RecordPaymentRequest{Amount: "100", Method: model.MethodCash})
	assert.Error(t, err)
}

func TestToggleInstallment_EndToEnd(t *testing.T) {
	repo := &fakeInvoiceRepo{invoice: pendingInvoice("1200")}
	svc := NewPaymentService(repo, fakeTxManager{}, testHub(t))
	id := repo.invoice.ID.String()

	_, err := svc.RecordPayment(context.Background(), id, RecordPaymentRequest{
		Amount:           "300",
		Method:           model.MethodCreditCard,
		Installments:     true,
		InstallmentCount: 4,
	})
	require.NoError(t, err)

	resp, err := svc.ToggleInstallment(context.Background(), id, 2, ToggleInstallmentRequest{Status: model.InstallmentPaid})
	require.NoError(t, err)
	assert.Equal(t, "600.00", resp.AmountPaid)
	assert.Equal(t, 2, resp.InstallmentsRemaining)

	_, err = svc.ToggleInstallment(context.Background(), id, 4, ToggleInstallmentRequest{Status: model.InstallmentPaid})
	assert.ErrorIs(t, err, billing.ErrInstallmentOrderViolation)
}
