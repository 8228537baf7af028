package repository

import (
	"context"

	"invoicer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository persists reusable billable items.
type CatalogRepository interface {
	Create(ctx context.Context, item *model.CatalogItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	List(ctx context.Context, category string, activeOnly bool, page, limit int) ([]model.CatalogItem, int64, error)
	Update(ctx context.Context, item *model.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) List(ctx context.Context, category string, activeOnly bool, page, limit int) ([]model.CatalogItem, int64, error) {
	var items []model.CatalogItem
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.CatalogItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *catalogRepository) Update(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.CatalogItem{}, "id = ?", id).Error
}
