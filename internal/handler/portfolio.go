package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// PortfolioHandler handles categories and the gallery items
type PortfolioHandler struct {
	portfolioService services.PortfolioService
	logger           *slog.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService services.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns every category by name
// GET /api/categories
func (h *PortfolioHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.portfolioService.ListCategories(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, categories)
}

// CreateCategory adds a category; a duplicate name is a 409 carrying the existing id
// POST /api/admin/categories
func (h *PortfolioHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.portfolioService.CreateCategory(r.Context(), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, category)
}

// DeleteCategory deletes a category; its items become uncategorized
// DELETE /api/admin/categories/{id}
func (h *PortfolioHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolioService.DeleteCategory(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListItems lists gallery items, optionally filtered by ?category_id=
// GET /api/portfolio
// GET /api/admin/portfolio
func (h *PortfolioHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	categoryID, err := httputil.QueryID(r, "category_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.portfolioService.ListItems(r.Context(), categoryID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// GetItem returns a single gallery item
// GET /api/admin/portfolio/{id}
func (h *PortfolioHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.portfolioService.GetItem(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// CreateItem uploads a gallery item
// POST /api/admin/portfolio (multipart: image, title, description?, category_id?)
func (h *PortfolioHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := httputil.FormFile(r, ImageField)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	categoryID, _, err := formCategory(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	title, _ := httputil.FormText(r, "title")
	item, err := h.portfolioService.CreateItem(r.Context(), &services.CreatePortfolioItemRequest{
		Title:       title,
		Description: httputil.FormStringPtr(r, "description"),
		CategoryID:  categoryID,
		File:        file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateItem edits an item; an empty category_id uncategorizes it
// PATCH /api/admin/portfolio/{id} (multipart: image?, title?, description?, category_id?)
func (h *PortfolioHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := httputil.ParseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := httputil.FormFile(r, ImageField)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	categoryID, uncategorize, err := formCategory(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.portfolioService.UpdateItem(r.Context(), id, &services.UpdatePortfolioItemRequest{
		Title:         httputil.FormStringPtr(r, "title"),
		Description:   httputil.FormOptional(r, "description").Text(),
		CategoryID:    categoryID,
		ClearCategory: uncategorize,
		File:          file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes a gallery item
// DELETE /api/admin/portfolio/{id}
func (h *PortfolioHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.portfolioService.DeleteItem(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveItem swaps a gallery item with its neighbor
// POST /api/admin/portfolio/{id}/move
func (h *PortfolioHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id, dir, ok := parseMove(w, r)
	if !ok {
		return
	}

	result, err := h.portfolioService.MoveItem(r.Context(), id, dir)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// formCategory reads category_id: absent is (nil, false), blank is (nil, true)
func formCategory(r *http.Request) (*int64, bool, error) {
	raw, ok := httputil.FormText(r, "category_id")
	if !ok {
		return nil, false, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false, fmt.Errorf("invalid category_id: %q", raw)
	}
	return &id, false, nil
}
