package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// MessageHandler handles contact form submissions and the admin inbox
type MessageHandler struct {
	messageService services.MessageService
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService services.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

// CreateMessage accepts a public contact form submission
// POST /api/contact
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req services.CreateMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.messageService.CreateMessage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      msg.ID,
		"success": true,
	})
}

// ListMessages returns the inbox, newest first, with the unread count
// GET /api/admin/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	list, err := h.messageService.ListMessages(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// MarkRead sets the read flag
// PATCH /api/admin/messages/{id}
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req markReadRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Read == nil {
		httputil.RespondError(w, http.StatusBadRequest, "read is required")
		return
	}

	msg, err := h.messageService.MarkRead(r.Context(), id, *req.Read)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msg)
}

// DeleteMessage deletes a message
// DELETE /api/admin/messages/{id}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.messageService.DeleteMessage(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
