package handler

import (
	"net/http"

	"github.com/parisxmas/materai/internal/service"
)

// DocumentHandler accepts a complete submission in one multipart request.
type DocumentHandler struct {
	svc       *service.FormService
	maxUpload int64
}

func NewDocumentHandler(svc *service.FormService, maxUpload int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxUpload: maxUpload}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	att, err := readAttachment(w, r, h.maxUpload)
	if err != nil {
		writeError(w, attachmentStatus(err), err.Error())
		return
	}
	view, err := h.svc.SubmitOnce(r.Context(), sess, r.FormValue("location"), r.FormValue("workScope"), att)
	if err != nil {
		writeForm(w, http.StatusOK, "", view, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  view.Message,
		"document": view.Result,
	})
}
