package service

import (
	"context"
	"fmt"
	"time"

	"invoicer/internal/model"
	"invoicer/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCatalogItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Rate        string `json:"rate"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
}

type UpdateCatalogItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Rate        *string `json:"rate"`
	Unit        *string `json:"unit"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"is_active"`
}

type CatalogItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rate        string `json:"rate"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type CatalogService interface {
	CreateItem(ctx context.Context, req CreateCatalogItemRequest) (CatalogItemResponse, error)
	ListItems(ctx context.Context, category string, activeOnly bool, page, limit int) ([]CatalogItemResponse, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateCatalogItemRequest) (CatalogItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

// --- Implementation ---

func (s *catalogService) CreateItem(ctx context.Context, req CreateCatalogItemRequest) (CatalogItemResponse, error) {
	item := model.CatalogItem{
		Name:        req.Name,
		Description: req.Description,
		Rate:        parseOrZero(req.Rate),
		Unit:        req.Unit,
		Category:    req.Category,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return CatalogItemResponse{}, fmt.Errorf("failed to create catalog item: %w", err)
	}

	return toCatalogItemResponse(item), nil
}

func (s *catalogService) ListItems(ctx context.Context, category string, activeOnly bool, page, limit int) ([]CatalogItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.repo.List(ctx, category, activeOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch catalog items: %w", err)
	}

	result := make([]CatalogItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, toCatalogItemResponse(it))
	}
	return result, total, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, req UpdateCatalogItemRequest) (CatalogItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("invalid catalog item id: %w", err)
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("catalog item not found: %w", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Rate != nil {
		item.Rate = parseOrZero(*req.Rate)
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return CatalogItemResponse{}, fmt.Errorf("failed to update catalog item: %w", err)
	}

	return toCatalogItemResponse(*item), nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid catalog item id: %w", err)
	}

	if _, err := s.repo.FindByID(ctx, itemID); err != nil {
		return fmt.Errorf("catalog item not found: %w", err)
	}

	return s.repo.Delete(ctx, itemID)
}

// --- Mapping ---

func toCatalogItemResponse(it model.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:          it.ID.String(),
		Name:        it.Name,
		Description: it.Description,
		Rate:        it.Rate.StringFixed(4),
		Unit:        it.Unit,
		Category:    it.Category,
		IsActive:    it.IsActive,
		CreatedAt:   it.CreatedAt.Format(time.RFC3339),
	}
}
