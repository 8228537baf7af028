package repository

import (
	"context"

	"invoicer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringInvoiceRepository persists recurring-invoice templates.
type RecurringInvoiceRepository interface {
	Create(ctx context.Context, rec *model.RecurringInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RecurringInvoice, error)
	List(ctx context.Context, page, limit int) ([]model.RecurringInvoice, int64, error)
	Update(ctx context.Context, rec *model.RecurringInvoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recurringInvoiceRepository struct {
	db *gorm.DB
}

func NewRecurringInvoiceRepository(db *gorm.DB) RecurringInvoiceRepository {
	return &recurringInvoiceRepository{db: db}
}

func (r *recurringInvoiceRepository) Create(ctx context.Context, rec *model.RecurringInvoice) error {
	return GetDB(ctx, r.db).Create(rec).Error
}

func (r *recurringInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RecurringInvoice, error) {
	var rec model.RecurringInvoice
	if err := GetDB(ctx, r.db).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recurringInvoiceRepository) List(ctx context.Context, page, limit int) ([]model.RecurringInvoice, int64, error) {
	var recs []model.RecurringInvoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.RecurringInvoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&recs).Error; err != nil {
		return nil, 0, err
	}

	return recs, total, nil
}

func (r *recurringInvoiceRepository) Update(ctx context.Context, rec *model.RecurringInvoice) error {
	return GetDB(ctx, r.db).Save(rec).Error
}

func (r *recurringInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.RecurringInvoice{}, "id = ?", id).Error
}
