package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// AuthHandler handles admin login and session requests
type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a bearer token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Password, httputil.ClientIP(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, token)
}

// Logout revokes the caller's token
// POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), httputil.GetSession(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session describes the caller's token
// GET /api/admin/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := httputil.GetSession(r)
	if session == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "no session")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}
