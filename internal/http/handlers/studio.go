package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mchlmayer/iathumb/internal/studio"
)

type referenceInfo struct {
	MIMEType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
}

type resultInfo struct {
	DataURL string `json:"data_url"`
	Bytes   int    `json:"bytes"`
}

type stateResponse struct {
	Phase     string         `json:"phase"`
	Prompt    string         `json:"prompt,omitempty"`
	Refining  bool           `json:"refining"`
	Reference *referenceInfo `json:"reference,omitempty"`
	Result    *resultInfo    `json:"result,omitempty"`
	Failure   string         `json:"failure,omitempty"`
}

// stateView renders a session snapshot for the wire. The reference payload is
// deliberately omitted here; the upload response already carried its preview.
func stateView(s studio.State) stateResponse {
	out := stateResponse{
		Phase:    string(s.Phase),
		Prompt:   s.Prompt,
		Refining: s.Refining(),
		Failure:  s.Failure,
	}
	if s.Reference != nil {
		out.Reference = &referenceInfo{MIMEType: s.Reference.MIMEType, Bytes: len(s.Reference.Data)}
	}
	if len(s.Result) > 0 {
		out.Result = &resultInfo{DataURL: dataURL("image/png", s.Result), Bytes: len(s.Result)}
	}
	return out
}

func (a *App) StudioState(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, stateView(a.Session.Snapshot()))
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	stateResponse
	Mode string `json:"mode"`
}

func (a *App) StudioGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt must not be empty")
		return
	}

	state, mode, err := a.Session.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, generateResponse{stateResponse: stateView(state), Mode: string(mode)})
}

func (a *App) StudioReset(w http.ResponseWriter, r *http.Request) {
	state, err := a.Session.Reset()
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, stateView(state))
}
