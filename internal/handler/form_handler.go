package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/materai/internal/service"
)

// FormHandler drives server-held forms one step at a time.
type FormHandler struct {
	svc       *service.FormService
	maxUpload int64
}

func NewFormHandler(svc *service.FormService, maxUpload int64) *FormHandler {
	return &FormHandler{svc: svc, maxUpload: maxUpload}
}

type selectRequest struct {
	Value string `json:"value"`
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, view := h.svc.Open(r.Context(), sess)
	writeForm(w, http.StatusCreated, id, view, nil)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.View(sess, id)
	writeForm(w, http.StatusOK, id, view, err)
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "formId")
	if err := h.svc.Close(sess, id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *FormHandler) SelectLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.SelectLocation(r.Context(), sess, id, req.Value)
	writeForm(w, http.StatusOK, id, view, err)
}

func (h *FormHandler) SelectWorkScope(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.SelectWorkScope(sess, id, req.Value)
	writeForm(w, http.StatusOK, id, view, err)
}

func (h *FormHandler) AttachFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	att, err := readAttachment(w, r, h.maxUpload)
	if err != nil {
		writeError(w, attachmentStatus(err), err.Error())
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.AttachFile(sess, id, att)
	writeForm(w, http.StatusOK, id, view, err)
}

func (h *FormHandler) ClearFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.ClearFile(sess, id)
	writeForm(w, http.StatusOK, id, view, err)
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.Submit(r.Context(), sess, id)
	writeForm(w, http.StatusCreated, id, view, err)
}

func (h *FormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "formId")
	view, err := h.svc.Reset(r.Context(), sess, id)
	writeForm(w, http.StatusOK, id, view, err)
}
