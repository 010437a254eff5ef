package repository

import (
	"context"
	"errors"
	"time"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionConflict means an invoice changed between read and write; the
// caller should reload and retry.
var ErrVersionConflict = errors.New("invoice was modified concurrently")

// InvoiceListFilter narrows invoice queries. Zero values mean "no filter";
// Limit 0 disables pagination (used by the read-only aggregators, which need
// the whole snapshot).
type InvoiceListFilter struct {
	PaymentStatuses []string
	PatientID       *uuid.UUID
	PaymentMethod   string
	Installment     *bool
	From            *time.Time
	To              *time.Time // exclusive
	Page            int
	Limit           int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	UpdatePayment(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Patient").Preload("Procedure").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Invoice{})
	query = applyInvoiceFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := applyInvoiceFilter(db.Preload("Patient").Preload("Procedure"), filter)
	fetch = fetch.Order("date desc, created_at desc")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		fetch = fetch.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}
	if err := fetch.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// invoicePaymentColumns are the fields the billing engine owns. They are
// written together in one UPDATE so the scalar aggregates and the jsonb
// installment list can never go out of sync.
var invoicePaymentColumns = []string{
	"amount_paid", "payment_status", "payment_method", "installment",
	"installment_count", "installments_remaining", "installment_amount",
	"next_due_date", "installments", "version", "updated_at",
}

// UpdatePayment persists an engine-produced snapshot guarded by the version
// the snapshot was read at. No matching row means someone else won the write;
// the caller reloads and retries.
func (r *invoiceRepository) UpdatePayment(ctx context.Context, invoice *model.Invoice) error {
	readVersion := invoice.Version
	invoice.Version = readVersion + 1
	invoice.UpdatedAt = time.Now()

	res := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, readVersion).
		Select(invoicePaymentColumns).
		Updates(invoice)
	if res.Error != nil {
		invoice.Version = readVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		invoice.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.Invoice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyInvoiceFilter(query *gorm.DB, filter InvoiceListFilter) *gorm.DB {
	if len(filter.PaymentStatuses) > 0 {
		query = query.Where("payment_status IN ?", filter.PaymentStatuses)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Installment != nil {
		query = query.Where("installment = ?", *filter.Installment)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}
	return query
}
