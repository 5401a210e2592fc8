package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mchlmayer/iathumb/internal/domain"
	"github.com/mchlmayer/iathumb/internal/studio"
)

const downloadFilename = "thumbnail-16x9.png"

// ResultDownload streams the latest generated thumbnail as a PNG attachment.
func (a *App) ResultDownload(w http.ResponseWriter, r *http.Request) {
	state := a.Session.Snapshot()
	if state.Phase == studio.PhaseGenerating {
		a.domainError(w, domain.ErrGenerationInFlight)
		return
	}
	if len(state.Result) == 0 {
		a.domainError(w, domain.ErrNoResult)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(state.Result)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(state.Result)
}
