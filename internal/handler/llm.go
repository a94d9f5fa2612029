package handler

import (
	"errors"
	"net/http"

	"github.com/personachat/personachat-go/internal/model"
	"github.com/personachat/personachat-go/internal/service"
)

// LLMHandler handles HTTP requests for text generation.
type LLMHandler struct {
	service *service.LLMService
}

// NewLLMHandler creates a new LLMHandler.
func NewLLMHandler(svc *service.LLMService) *LLMHandler {
	return &LLMHandler{service: svc}
}

// HandleGenerateText handles POST /generate-text requests, proxying the
// prompt to the upstream LLM provider.
func (h *LLMHandler) HandleGenerateText(w http.ResponseWriter, r *http.Request) {
	var req model.PromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingAPIKey):
			writeJSON(w, http.StatusInternalServerError, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUpstreamRequest), errors.Is(err, service.ErrUpstreamBody):
			writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
