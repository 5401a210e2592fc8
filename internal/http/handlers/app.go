package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mchlmayer/iathumb/internal/domain"
	"github.com/mchlmayer/iathumb/internal/infra"
	"github.com/mchlmayer/iathumb/internal/providers/prompt"
	"github.com/mchlmayer/iathumb/internal/studio"
)

// App carries the dependencies shared by every HTTP handler.
type App struct {
	Config   *infra.Config
	Logger   infra.Logger
	Session  *studio.Session
	Enhancer prompt.Enhancer
}

func NewApp(cfg *infra.Config, logger infra.Logger, session *studio.Session, enhancer prompt.Enhancer) *App {
	return &App{Config: cfg, Logger: logger, Session: session, Enhancer: enhancer}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errorBody{Code: errCode, Message: message}})
}

// domainError maps session and provider failures onto HTTP statuses. Unknown
// errors fall through to a generic 500 without leaking internals.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPrompt):
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt must not be empty")
	case errors.Is(err, domain.ErrDecode):
		a.error(w, http.StatusUnprocessableEntity, "undecodable_image", "uploaded file is not a decodable image")
	case errors.Is(err, domain.ErrContentBlocked):
		a.error(w, http.StatusUnprocessableEntity, "content_blocked", err.Error())
	case errors.Is(err, domain.ErrGenerationInFlight):
		a.error(w, http.StatusConflict, "generation_in_flight", "a generation cycle is already running")
	case errors.Is(err, domain.ErrNoResult):
		a.error(w, http.StatusNotFound, "no_result", "no thumbnail has been generated yet")
	case errors.Is(err, domain.ErrRateLimited):
		a.error(w, http.StatusTooManyRequests, "rate_limited", "image service quota exhausted, retry later")
	case errors.Is(err, domain.ErrEmptyResult),
		errors.Is(err, domain.ErrUnexpectedResponse),
		errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusBadGateway, "generation_failed", "image service did not return a usable image")
	default:
		a.Logger.Error().Err(err).Msg("unhandled handler error")
		a.error(w, http.StatusInternalServerError, "internal", "unexpected failure")
	}
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
