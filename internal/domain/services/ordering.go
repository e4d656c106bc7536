package services

import (
	"context"

	"atelier/internal/domain/models"
)

// OrderingService moves rows one step within their scope and keeps
// display_order values usable.
type OrderingService interface {
	// MoveOneStep swaps id with its neighbor in direction, atomically.
	// Fails with domain.ErrNotFound or domain.ErrNoAdjacent.
	MoveOneStep(ctx context.Context, scope models.OrderScope, id int64, dir models.Direction) (*models.SwapResult, error)

	// NextOrder returns the display_order for a row appended to the scope key.
	// Call it inside the transaction that inserts the row.
	NextOrder(ctx context.Context, scope models.OrderScope, scopeKey *int64) (int, error)

	// Renumber rewrites every scope key of scope to 1..n and returns the number of rows changed.
	Renumber(ctx context.Context, scope models.OrderScope) (int, error)
}
