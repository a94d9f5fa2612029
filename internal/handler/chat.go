package handler

import (
	"errors"
	"net/http"

	"github.com/personachat/personachat-go/internal/middleware"
	"github.com/personachat/personachat-go/internal/model"
	"github.com/personachat/personachat-go/internal/service"
)

// ChatHandler handles HTTP requests for conversation persistence.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleSaveConversation handles POST /save-conversation requests.
func (h *ChatHandler) HandleSaveConversation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.SaveConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SaveConversation(r.Context(), principal, req); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse("conversation saved"))
}

// HandleListConversations handles GET /conversations requests.
func (h *ChatHandler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	convos, err := h.service.ListConversations(r.Context(), principal)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, convos)
}
