package handlers

import (
	"net/http"

	"github.com/notq/speech-backend/internal/llm"
)

type ModelsHandler struct {
	gateway llm.Gateway
}

func NewModelsHandler(gw llm.Gateway) *ModelsHandler {
	return &ModelsHandler{gateway: gw}
}

// ListModels reports the chat models the configured providers expose, so
// clients can populate model pickers without hardcoding names.
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models := h.gateway.ListModels()
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}
