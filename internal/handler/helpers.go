package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/formctl"
	"github.com/parisxmas/materai/internal/models"
	"github.com/parisxmas/materai/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func session(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	sess, ok := auth.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return sess, ok
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, formctl.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, fileenc.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, fileenc.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, backend.ErrNoBranch), errors.Is(err, backend.ErrBranchMismatch):
		return http.StatusForbidden
	case errors.Is(err, formctl.ErrIncomplete),
		errors.Is(err, formctl.ErrFieldDisabled),
		errors.Is(err, service.ErrUnknownOption),
		errors.Is(err, fileenc.ErrEmptyFile):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

type formResponse struct {
	ID string `json:"id,omitempty"`
	formctl.View
}

type formErrorResponse struct {
	Error string        `json:"error"`
	Form  *formResponse `json:"form,omitempty"`
}

// writeForm answers with the form view, or with the error and the view the
// user should see next to it.
func writeForm(w http.ResponseWriter, status int, id string, view formctl.View, err error) {
	if err == nil {
		writeJSON(w, status, formResponse{ID: id, View: view})
		return
	}
	if errors.Is(err, service.ErrFormNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	msg := view.Error
	if msg == "" {
		msg = err.Error()
	}
	writeJSON(w, statusFor(err), formErrorResponse{Error: msg, Form: &formResponse{ID: id, View: view}})
}

// readAttachment pulls the "file" part out of a multipart request.
func readAttachment(w http.ResponseWriter, r *http.Request, maxSize int64) (models.Attachment, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return models.Attachment{}, fileenc.ErrTooLarge
		}
		return models.Attachment{}, errMultipart
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return models.Attachment{}, errFileRequired
	}
	defer file.Close()
	return fileenc.Read(header.Filename, header.Header.Get("Content-Type"), file, maxSize)
}

var (
	errMultipart    = errors.New("invalid multipart body")
	errFileRequired = errors.New("file is required")
)

func attachmentStatus(err error) int {
	if errors.Is(err, errMultipart) || errors.Is(err, errFileRequired) {
		return http.StatusBadRequest
	}
	return statusFor(err)
}
