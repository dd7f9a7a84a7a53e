package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/backend/memory"
	"github.com/parisxmas/materai/internal/handler"
	"github.com/parisxmas/materai/internal/models"
	"github.com/parisxmas/materai/internal/service"
)

const secret = "router-test-secret"

type testServer struct {
	*httptest.Server
	store   *memory.Store
	token   string
	cookies []*http.Cookie
}

func newTestServer(t *testing.T, sess models.Session) *testServer {
	t.Helper()
	store := memory.New(backend.Catalog{
		{Branch: "JKT01", LocationCode: "ULOK-100", WorkScope: "Renovasi"},
		{Branch: "JKT01", LocationCode: "ULOK-200", WorkScope: "Pembangunan"},
		{Branch: "BDG02", LocationCode: "ULOK-900", WorkScope: "Sipil"},
	}, nil)
	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := logrus.NewEntry(log)

	forms := service.NewFormService(store, service.FormOptions{TTL: time.Minute}, entry)
	r := New(Options{JWTSecret: secret, CORSOrigins: []string{"*"}, Logger: entry},
		handler.NewOptionsHandler(store),
		handler.NewFormHandler(forms, 1<<20),
		handler.NewDocumentHandler(forms, 1<<20),
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	tok, err := auth.GenerateToken(secret, sess, time.Hour)
	require.NoError(t, err)
	return &testServer{Server: srv, store: store, token: tok}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.token)
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *testServer) putValue(t *testing.T, path, value string) (int, map[string]any) {
	return s.do(t, http.MethodPut, path, strings.NewReader(`{"value":"`+value+`"}`), "application/json")
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func field(view map[string]any, name string) map[string]any {
	return view[name].(map[string]any)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "u1", Branch: "JKT01"})
	resp, err := http.Get(s.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.URL + "/api/v1/options/branches")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionsEndpoints(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "u1", Branch: "JKT01"})

	code, body := s.do(t, http.MethodGet, "/api/v1/options/branches", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"JKT01"}, body["options"])

	code, body = s.do(t, http.MethodGet, "/api/v1/options/locations", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"ULOK-100", "ULOK-200"}, body["options"])

	code, body = s.do(t, http.MethodGet, "/api/v1/options/work-scopes?location=ULOK-100", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"Renovasi"}, body["options"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/options/work-scopes", nil, "")
	require.Equal(t, http.StatusBadRequest, code)
}

func TestOptionsEndpoints_NoBranch(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "u1"})
	code, body := s.do(t, http.MethodGet, "/api/v1/options/branches", nil, "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Cabang belum diinput untuk akun ini.", body["error"])
}

func TestBranchlessTokenIgnoresSessionCookie(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "intruder"})
	s.cookies = []*http.Cookie{{Name: auth.SessionKey, Value: url.QueryEscape(`{"cabang":"BDG02"}`)}}

	code, body := s.do(t, http.MethodGet, "/api/v1/options/locations", nil, "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Cabang belum diinput untuk akun ini.", body["error"])

	form, ct := multipartBody(t, map[string]string{"location": "ULOK-900", "workScope": "Sipil"}, "foto.png",
		[]byte("\x89PNG\r\n\x1a\n0000"))
	code, _ = s.do(t, http.MethodPost, "/api/v1/documents", form, ct)
	require.Equal(t, http.StatusForbidden, code)
	require.Empty(t, s.store.Documents())
}

func TestFormLifecycle(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "u1", Email: "u1@materai.id", Branch: "JKT01"})

	code, view := s.do(t, http.MethodPost, "/api/v1/forms", nil, "")
	require.Equal(t, http.StatusCreated, code)
	id := view["id"].(string)
	require.Equal(t, "JKT01", field(view, "branch")["value"])
	require.Equal(t, "locked", field(view, "branch")["state"])
	base := "/api/v1/forms/" + id

	code, view = s.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Lengkapi semua field dan pilih file.", view["error"])

	code, view = s.putValue(t, base+"/location", "ULOK-100")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"Renovasi"}, field(view, "workScope")["options"])

	code, _ = s.putValue(t, base+"/work-scope", "Sipil")
	require.Equal(t, http.StatusBadRequest, code)
	code, _ = s.putValue(t, base+"/work-scope", "Renovasi")
	require.Equal(t, http.StatusOK, code)

	body, ct := multipartBody(t, nil, "surat.pdf", []byte("%PDF-1.4 test"))
	code, view = s.do(t, http.MethodPut, base+"/file", body, ct)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "surat.pdf", view["file"].(map[string]any)["name"])

	code, view = s.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, view["saved"])
	require.Equal(t, "Dokumen berhasil disimpan.", view["message"])
	require.Equal(t, "", field(view, "locationCode")["value"])
	require.Nil(t, view["file"])

	docs := s.store.Documents()
	require.Len(t, docs, 1)
	require.Equal(t, "Renovasi", docs[0].WorkScope)

	code, view = s.do(t, http.MethodPost, base+"/reset", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "JKT01", field(view, "branch")["value"])

	code, _ = s.do(t, http.MethodDelete, base, nil, "")
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestDocumentsOneShot(t *testing.T) {
	s := newTestServer(t, models.Session{UserID: "u2", Branch: "BDG02"})

	body, ct := multipartBody(t, map[string]string{"location": "ULOK-900", "workScope": "Sipil"}, "foto.png",
		[]byte("\x89PNG\r\n\x1a\n0000"))
	code, out := s.do(t, http.MethodPost, "/api/v1/documents", body, ct)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Dokumen berhasil disimpan.", out["message"])
	require.Equal(t, "BDG02", out["document"].(map[string]any)["branch"])

	body, ct = multipartBody(t, map[string]string{"location": "ULOK-900", "workScope": "Sipil"}, "", nil)
	code, _ = s.do(t, http.MethodPost, "/api/v1/documents", body, ct)
	require.Equal(t, http.StatusBadRequest, code)

	body, ct = multipartBody(t, map[string]string{"location": "ULOK-900", "workScope": "Sipil"}, "notes.txt",
		[]byte("plain text"))
	code, out = s.do(t, http.MethodPost, "/api/v1/documents", body, ct)
	require.Equal(t, http.StatusUnsupportedMediaType, code)
	require.Contains(t, out["error"], "not accepted")
	require.Len(t, s.store.Documents(), 1)
}
