package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// HomepageHandler handles the public home page and featured image selection
type HomepageHandler struct {
	homepageService services.HomepageService
	logger          *slog.Logger
}

// NewHomepageHandler creates a new homepage handler
func NewHomepageHandler(homepageService services.HomepageService, logger *slog.Logger) *HomepageHandler {
	return &HomepageHandler{
		homepageService: homepageService,
		logger:          logger,
	}
}

// setImageRequest selects an image for a slot; null clears it
type setImageRequest struct {
	ImageID *int64 `json:"image_id"`
}

// GetHomePage returns the assembled public home page
// GET /api/home
func (h *HomepageHandler) GetHomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.homepageService.GetHomePage(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetSettings returns the featured image selections
// GET /api/admin/homepage
func (h *HomepageHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.homepageService.GetSettings(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// SetImage points a slot at an image, or clears it
// PUT /api/admin/homepage/{slot}
func (h *HomepageHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	slot := models.HomepageSlot(r.PathValue("slot"))

	var req setImageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.homepageService.SetImage(r.Context(), slot, req.ImageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}
