package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/formctl"
	"github.com/parisxmas/materai/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrFormNotFound, http.StatusNotFound},
		{formctl.ErrBusy, http.StatusConflict},
		{fmt.Errorf("%w (12 > 10 bytes)", fileenc.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{fileenc.ErrUnsupported, http.StatusUnsupportedMediaType},
		{backend.ErrNoBranch, http.StatusForbidden},
		{fmt.Errorf("%w: BDG02", backend.ErrBranchMismatch), http.StatusForbidden},
		{fmt.Errorf("%w (validation)", formctl.ErrIncomplete), http.StatusBadRequest},
		{service.ErrUnknownOption, http.StatusBadRequest},
		{errors.New("sheet unavailable"), http.StatusBadGateway},
	}
	for _, c := range cases {
		require.Equal(t, c.want, statusFor(c.err), c.err.Error())
	}
}

func TestWriteForm_ErrorUsesViewMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeForm(rec, http.StatusOK, "f1", formctl.View{Error: formctl.MsgSaveFailed}, errors.New("upstream 500"))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.JSONEq(t, `{
		"error": "Terjadi kesalahan saat menyimpan.",
		"form": {
			"id": "f1",
			"branch": {"state": "empty", "options": null, "value": ""},
			"locationCode": {"state": "empty", "options": null, "value": ""},
			"workScope": {"state": "empty", "options": null, "value": ""},
			"submitting": false,
			"error": "Terjadi kesalahan saat menyimpan.",
			"saved": false
		}
	}`, rec.Body.String())
}

func TestWriteForm_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	writeForm(rec, http.StatusOK, "f1", formctl.View{}, service.ErrFormNotFound)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"form not found"}`, rec.Body.String())
}
