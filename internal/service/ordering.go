package service

import (
	"context"
	"errors"
	"log/slog"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/metrics"
)

// orderingService implements the OrderingService interface
type orderingService struct {
	orderRepo repositories.OrderingRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewOrderingService creates a new ordering service
func NewOrderingService(
	orderRepo repositories.OrderingRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.OrderingService {
	return &orderingService{
		orderRepo: orderRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// MoveOneStep swaps display_order with the adjacent row inside one transaction.
// The scope lock is taken before any row is read, so concurrent moves, appends
// and renumbering of the same scope run one at a time and each move finds the
// neighbor as of the previous commit.
func (s *orderingService) MoveOneStep(ctx context.Context, scope models.OrderScope, id int64, dir models.Direction) (*models.SwapResult, error) {
	noun := scope.Noun()
	var result *models.SwapResult

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.LockScope(txCtx, scope); err != nil {
			return err
		}

		current, err := s.orderRepo.LockPosition(txCtx, scope, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Errorf(domain.ErrNotFound, "%s not found", noun)
			}
			return err
		}

		adjacent, err := s.orderRepo.LockAdjacent(txCtx, scope, current, dir)
		if err != nil {
			return err
		}
		if adjacent == nil {
			return domain.Errorf(domain.ErrNoAdjacent, "no %s to swap with", noun)
		}

		if err := s.orderRepo.SetDisplayOrder(txCtx, scope, current.ID, adjacent.DisplayOrder); err != nil {
			return &domain.WriteFailureError{Step: 1, Err: err}
		}
		if err := s.orderRepo.SetDisplayOrder(txCtx, scope, adjacent.ID, current.DisplayOrder); err != nil {
			return &domain.WriteFailureError{Step: 2, Err: err}
		}

		result = &models.SwapResult{
			Scope:        scope,
			ID:           current.ID,
			DisplayOrder: adjacent.DisplayOrder,
			SwappedID:    adjacent.ID,
			SwappedOrder: current.DisplayOrder,
		}
		return nil
	})

	metrics.Reorders.WithLabelValues(string(scope), moveResultLabel(err)).Inc()
	if err != nil {
		var writeErr *domain.WriteFailureError
		if errors.As(err, &writeErr) {
			s.logger.Error("reorder write failed",
				"scope", scope,
				"id", id,
				"direction", dir,
				"step", writeErr.Step,
				"error", writeErr.Err,
			)
		}
		return nil, err
	}

	s.logger.Info("reordered",
		"scope", scope,
		"id", result.ID,
		"direction", dir,
		"display_order", result.DisplayOrder,
		"swapped_id", result.SwappedID,
	)

	return result, nil
}

// NextOrder returns the append position for a new row in the scope key
func (s *orderingService) NextOrder(ctx context.Context, scope models.OrderScope, scopeKey *int64) (int, error) {
	return s.orderRepo.NextDisplayOrder(ctx, scope, scopeKey)
}

// Renumber rewrites display_order to 1..n within each scope key
func (s *orderingService) Renumber(ctx context.Context, scope models.OrderScope) (int, error) {
	changed := 0

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.LockScope(txCtx, scope); err != nil {
			return err
		}

		positions, err := s.orderRepo.ListPositions(txCtx, scope)
		if err != nil {
			return err
		}

		for _, pos := range renumberPlan(positions) {
			if err := s.orderRepo.SetDisplayOrder(txCtx, scope, pos.ID, pos.DisplayOrder); err != nil {
				return &domain.WriteFailureError{Step: changed + 1, Err: err}
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		metrics.Renumbered.WithLabelValues(string(scope)).Add(float64(changed))
		s.logger.Info("renumbered", "scope", scope, "changed", changed)
	}

	return changed, nil
}

// renumberPlan takes positions sorted by scope key, display_order, id and
// returns the rows whose order must change, with their new values.
func renumberPlan(positions []models.Position) []models.Position {
	var (
		plan []models.Position
		key  *int64
		n    int
	)
	for i, pos := range positions {
		if i == 0 || !sameScopeKey(key, pos.ScopeKey) {
			key = pos.ScopeKey
			n = 0
		}
		n++
		if pos.DisplayOrder != n {
			pos.DisplayOrder = n
			plan = append(plan, pos)
		}
	}
	return plan
}

func sameScopeKey(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func moveResultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrNoAdjacent):
		return metrics.ResultNoAdjacent
	default:
		return metrics.ResultError
	}
}
