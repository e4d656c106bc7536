package services

import (
	"context"

	"atelier/internal/domain/models"
)

// CreatePortfolioItemRequest represents a request to add a gallery item
type CreatePortfolioItemRequest struct {
	Title       string
	Description *string
	CategoryID  *int64
	File        *UploadedFile
}

// UpdatePortfolioItemRequest represents a partial gallery item update
type UpdatePortfolioItemRequest struct {
	Title         *string
	Description   OptionalText
	CategoryID    *int64
	ClearCategory bool
	File          *UploadedFile
}

// PortfolioService defines business logic for categories and portfolio items
type PortfolioService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListItems(ctx context.Context, categoryID *int64) ([]models.PortfolioItem, error)
	GetItem(ctx context.Context, id int64) (*models.PortfolioItem, error)
	CreateItem(ctx context.Context, req *CreatePortfolioItemRequest) (*models.PortfolioItem, error)
	UpdateItem(ctx context.Context, id int64, req *UpdatePortfolioItemRequest) (*models.PortfolioItem, error)
	DeleteItem(ctx context.Context, id int64) error
	MoveItem(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error)
}
