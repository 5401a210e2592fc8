package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mchlmayer/iathumb/internal/providers/prompt"
)

type promptEnhanceRequest struct {
	Prompt string `json:"prompt"`
}

// PromptEnhance asks the configured enhancer for a richer prompt plus concept
// ideas. The enhancer decides whether the model or the static rules answer.
func (a *App) PromptEnhance(w http.ResponseWriter, r *http.Request) {
	var req promptEnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt must not be empty")
		return
	}

	res, err := a.Enhancer.Enhance(r.Context(), prompt.EnhanceRequest{Prompt: req.Prompt})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"prompt":   res.Prompt,
		"ideas":    res.Ideas,
		"provider": res.Provider,
	})
}
