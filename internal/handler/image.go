package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// ImageField is the multipart field carrying the uploaded file
const ImageField = "image"

// ImageHandler handles project image HTTP requests
type ImageHandler struct {
	imageService services.ProjectImageService
	logger       *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService services.ProjectImageService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// ListImages lists images, optionally filtered by ?project_id=
// GET /api/admin/images
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	projectID, err := httputil.QueryID(r, "project_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	images, err := h.imageService.ListImages(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, images)
}

// ListProjectImages lists one project's images in display order
// GET /api/projects/{id}/images
func (h *ImageHandler) ListProjectImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	images, err := h.imageService.ListImages(r.Context(), &id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, images)
}

// GetImage returns a single image
// GET /api/admin/images/{id}
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	image, err := h.imageService.GetImage(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, image)
}

// CreateImage uploads an image into a project
// POST /api/admin/projects/{id}/images (multipart: image, title, description)
func (h *ImageHandler) CreateImage(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
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

	title, _ := httputil.FormText(r, "title")
	image, err := h.imageService.CreateImage(r.Context(), &services.CreateProjectImageRequest{
		ProjectID:   projectID,
		Title:       title,
		Description: httputil.FormStringPtr(r, "description"),
		File:        file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, image)
}

// UpdateImage edits title/description and optionally replaces the file
// PATCH /api/admin/images/{id} (multipart: image?, title?, description?)
func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
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

	image, err := h.imageService.UpdateImage(r.Context(), id, &services.UpdateProjectImageRequest{
		Title:       httputil.FormStringPtr(r, "title"),
		Description: httputil.FormOptional(r, "description").Text(),
		File:        file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, image)
}

// DeleteImage deletes an image
// DELETE /api/admin/images/{id}
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveImage swaps an image with its neighbor in the same project
// POST /api/admin/images/{id}/move
func (h *ImageHandler) MoveImage(w http.ResponseWriter, r *http.Request) {
	id, dir, ok := parseMove(w, r)
	if !ok {
		return
	}

	result, err := h.imageService.MoveImage(r.Context(), id, dir)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
