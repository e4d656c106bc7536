package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// updateProjectRequest is the PATCH body; nullable fields keep tri-state semantics
type updateProjectRequest struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	Location    httputil.OptionalString `json:"location"`
}

// ListProjects returns every project with its images in display order
// GET /api/projects
// GET /api/admin/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjectsWithImages(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// GetProject returns a project with its images
// GET /api/projects/{id}
// GET /api/admin/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.GetProjectWithImages(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// CreateProject appends a new project
// POST /api/admin/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// UpdateProject applies a partial update
// PATCH /api/admin/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, &services.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description.Text(),
		Location:    req.Location.Text(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and its images
// DELETE /api/admin/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveProject swaps a project with its neighbor
// POST /api/admin/projects/{id}/move
func (h *ProjectHandler) MoveProject(w http.ResponseWriter, r *http.Request) {
	id, dir, ok := parseMove(w, r)
	if !ok {
		return
	}

	result, err := h.projectService.MoveProject(r.Context(), id, dir)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
