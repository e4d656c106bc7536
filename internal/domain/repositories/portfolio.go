package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// CategoryRepository defines data access operations for portfolio categories
type CategoryRepository interface {
	// Create inserts a category. A duplicate name returns a *domain.ConflictError.
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)

	// List retrieves all categories ordered by name
	List(ctx context.Context) ([]models.Category, error)

	Delete(ctx context.Context, id int64) error
}

// PortfolioItemRepository defines data access operations for portfolio items
type PortfolioItemRepository interface {
	Create(ctx context.Context, item *models.PortfolioItem) error
	GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error)

	// List retrieves items ordered by display_order, id.
	// A non-nil categoryID filters to that category.
	List(ctx context.Context, categoryID *int64) ([]models.PortfolioItem, error)

	Update(ctx context.Context, item *models.PortfolioItem) error
	Delete(ctx context.Context, id int64) error
}
