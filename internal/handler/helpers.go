package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoAdjacent):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		w.Header().Set("Retry-After", "60")
		httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrUpload):
		slog.Default().Error("blob store failure", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "image upload failed")
	default:
		slog.Default().Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// moveRequest is the body of every move endpoint
type moveRequest struct {
	Direction string `json:"direction"`
}

// parseMove reads the move body and the target id
func parseMove(w http.ResponseWriter, r *http.Request) (int64, models.Direction, bool) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, "", false
	}

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return 0, "", false
	}

	dir, err := models.ParseDirection(req.Direction)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, "", false
	}

	return id, dir, true
}

// pathID parses the {id} path value, answering 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}
