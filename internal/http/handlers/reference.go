package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/mchlmayer/iathumb/internal/refimage"
)

const uploadField = "image"

type referenceUploadResponse struct {
	stateResponse
	Preview string `json:"preview"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ReferenceUpload accepts a multipart upload, normalizes it to the canonical
// 16:9 canvas and attaches it to the session. The response carries an inline
// preview of the normalized frame, not the original upload.
func (a *App) ReferenceUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, http.StatusRequestEntityTooLarge, "upload_too_large", "upload exceeds the size limit")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", `multipart field "image" is required`)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	ref, err := refimage.Normalize(data, header.Header.Get("Content-Type"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	state, err := a.Session.AttachReference(ref)
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.json(w, http.StatusOK, referenceUploadResponse{
		stateResponse: stateView(state),
		Preview:       dataURL(ref.MIMEType, ref.Data),
		Width:         refimage.CanvasWidth,
		Height:        refimage.CanvasHeight,
	})
}

func (a *App) ReferenceDelete(w http.ResponseWriter, r *http.Request) {
	state, err := a.Session.DetachReference()
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, stateView(state))
}
