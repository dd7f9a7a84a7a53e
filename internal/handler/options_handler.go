package handler

import (
	"net/http"

	"github.com/parisxmas/materai/internal/backend"
)

// OptionsHandler exposes the option lists of the caller's branch.
type OptionsHandler struct {
	backend backend.Backend
}

func NewOptionsHandler(b backend.Backend) *OptionsHandler {
	return &OptionsHandler{backend: b}
}

func (h *OptionsHandler) writeOptions(w http.ResponseWriter, opts []string, err error) {
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": opts})
}

func (h *OptionsHandler) Branches(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	opts, err := backend.ForSession(h.backend, sess).BranchOptions(r.Context())
	h.writeOptions(w, opts, err)
}

func (h *OptionsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	if sess.Branch == "" {
		writeError(w, http.StatusForbidden, backend.ErrNoBranch.Error())
		return
	}
	opts, err := backend.ForSession(h.backend, sess).LocationOptions(r.Context())
	h.writeOptions(w, opts, err)
}

func (h *OptionsHandler) WorkScopes(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}
	if sess.Branch == "" {
		writeError(w, http.StatusForbidden, backend.ErrNoBranch.Error())
		return
	}
	opts, err := backend.ForSession(h.backend, sess).WorkScopeOptions(r.Context(), location)
	h.writeOptions(w, opts, err)
}
