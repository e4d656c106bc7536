package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SiteHandler serves static business information and the health check
type SiteHandler struct {
	site   services.SiteProvider
	db     Pinger
	logger *slog.Logger
}

// NewSiteHandler creates a new site handler. db may be nil.
func NewSiteHandler(site services.SiteProvider, db Pinger, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		site:   site,
		db:     db,
		logger: logger,
	}
}

// GetSite returns the business information
// GET /api/site
func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.site.Info())
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *SiteHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check: database unreachable", "error", err)
			status["status"] = "degraded"
			status["database"] = "unreachable"
			httputil.RespondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}
