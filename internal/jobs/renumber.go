package jobs

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
)

const renumberTimeout = 2 * time.Minute

// RenumberScopes lists every ordered collection the maintenance job repairs.
var RenumberScopes = []models.OrderScope{
	models.ScopeProjects,
	models.ScopeProjectImages,
	models.ScopePortfolioItems,
}

// RenumberJob compacts display_order in every scope.
// onChange runs when any row changed, e.g. to drop cached pages.
func RenumberJob(ordering services.OrderingService, onChange func(), logger *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), renumberTimeout)
		defer cancel()

		total := 0
		for _, scope := range RenumberScopes {
			n, err := ordering.Renumber(ctx, scope)
			if err != nil {
				logger.Error("renumber failed", "scope", scope, "error", err)
				continue
			}
			total += n
		}

		logger.Debug("renumber job finished", "changed", total)
		if total > 0 && onChange != nil {
			onChange()
		}
	}
}

// Register schedules the renumber job on spec. An empty spec registers nothing.
func Register(s *Scheduler, spec string, ordering services.OrderingService, onChange func(), logger *slog.Logger) error {
	if spec == "" {
		logger.Info("renumber job disabled")
		return nil
	}

	if _, err := s.AddFunc(spec, RenumberJob(ordering, onChange, logger)); err != nil {
		return err
	}
	logger.Info("renumber job scheduled", "schedule", spec)
	return nil
}
