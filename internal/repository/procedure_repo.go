package repository

import (
	"context"

	"dentalclinic/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcedureRepository interface {
	Create(ctx context.Context, procedure *model.Procedure) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Procedure, error)
	List(ctx context.Context) ([]model.Procedure, error)
}

type procedureRepository struct {
	db *gorm.DB
}

func NewProcedureRepository(db *gorm.DB) ProcedureRepository {
	return &procedureRepository{db: db}
}

func (r *procedureRepository) Create(ctx context.Context, procedure *model.Procedure) error {
	return GetDB(ctx, r.db).Create(procedure).Error
}

func (r *procedureRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Procedure, error) {
	var procedure model.Procedure
	if err := GetDB(ctx, r.db).First(&procedure, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &procedure, nil
}

func (r *procedureRepository) List(ctx context.Context) ([]model.Procedure, error) {
	var procedures []model.Procedure
	if err := GetDB(ctx, r.db).Order("name").Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}
