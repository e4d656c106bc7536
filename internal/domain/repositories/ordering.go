package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// OrderingRepository is the display_order access shared by every orderable table.
// Ties on display_order are broken by id ascending in every method.
type OrderingRepository interface {
	// LockScope serializes every display_order writer of scope until the
	// transaction ends. It must be taken before any row lock.
	LockScope(ctx context.Context, scope models.OrderScope) error

	// LockPosition reads and row-locks id within scope.
	// Returns domain.ErrNotFound if the row does not exist.
	LockPosition(ctx context.Context, scope models.OrderScope, id int64) (*models.Position, error)

	// LockAdjacent reads and row-locks the nearest neighbor of pos in direction,
	// restricted to pos.ScopeKey. Returns nil if pos is already at that end.
	LockAdjacent(ctx context.Context, scope models.OrderScope, pos *models.Position, dir models.Direction) (*models.Position, error)

	// SetDisplayOrder overwrites display_order of a single row and nothing else.
	SetDisplayOrder(ctx context.Context, scope models.OrderScope, id int64, order int) error

	// NextDisplayOrder returns max(display_order)+1 within the scope key, or 1 if empty.
	NextDisplayOrder(ctx context.Context, scope models.OrderScope, scopeKey *int64) (int, error)

	// ListPositions returns every row of scope ordered by scope key, display_order, id.
	ListPositions(ctx context.Context, scope models.OrderScope) ([]models.Position, error)
}
