package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// OrderingHandler exposes the on-demand display_order repair
type OrderingHandler struct {
	ordering services.OrderingService
	logger   *slog.Logger
}

// NewOrderingHandler creates a new ordering handler
func NewOrderingHandler(ordering services.OrderingService, logger *slog.Logger) *OrderingHandler {
	return &OrderingHandler{
		ordering: ordering,
		logger:   logger,
	}
}

// Renumber returns a handler rewriting scope to 1..n
// POST /api/admin/projects/renumber (projects and their images)
// POST /api/admin/portfolio/renumber
func (h *OrderingHandler) Renumber(scopes ...models.OrderScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed := make(map[models.OrderScope]int, len(scopes))
		for _, scope := range scopes {
			n, err := h.ordering.Renumber(r.Context(), scope)
			if err != nil {
				handleError(w, err)
				return
			}
			changed[scope] = n
		}

		h.logger.Info("renumbered on request", "changed", changed)
		httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"changed": changed,
		})
	}
}
