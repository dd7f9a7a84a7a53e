package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/models"
)

func testLogger() (*logrus.Entry, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	return logrus.NewEntry(log), buf
}

func TestRecovery(t *testing.T) {
	log, buf := testLogger()
	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	require.Contains(t, buf.String(), "PANIC")
}

func TestLogger(t *testing.T) {
	log, buf := testLogger()
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/forms", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Contains(t, buf.String(), `"status":418`)
	require.Contains(t, buf.String(), `"level":"warning"`)
}

func TestLogger_RouteLabel(t *testing.T) {
	log, _ := testLogger()
	r := chi.NewRouter()
	r.Use(Logger(log))
	r.Get("/api/v1/forms/{id}", func(w http.ResponseWriter, _ *http.Request) {})

	requests := metricsSingleton().requests
	matched := requests.WithLabelValues(http.MethodGet, "/api/v1/forms/{id}", "200")
	unmatched := requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	beforeMatched, beforeUnmatched := testutil.ToFloat64(matched), testutil.ToFloat64(unmatched)

	for _, path := range []string{"/api/v1/forms/abc", "/nope/1", "/nope/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	require.Equal(t, beforeMatched+1, testutil.ToFloat64(matched))
	require.Equal(t, beforeUnmatched+2, testutil.ToFloat64(unmatched))
	require.Zero(t, testutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "/nope/1", "404")))
}

func TestRateLimit_PerUser(t *testing.T) {
	mw, err := RateLimit("2-M")
	require.NoError(t, err)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req = req.WithContext(auth.WithSession(req.Context(), models.Session{UserID: user}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusNoContent, call("a"))
	require.Equal(t, http.StatusNoContent, call("a"))
	require.Equal(t, http.StatusTooManyRequests, call("a"))
	require.Equal(t, http.StatusNoContent, call("b"))

	_, err = RateLimit("lots")
	require.Error(t, err)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://materai.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/forms", nil)
	req.Header.Set("Origin", "https://materai.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "https://materai.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
