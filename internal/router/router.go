package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/handler"
	mw "github.com/parisxmas/materai/internal/middleware"
)

type Options struct {
	JWTSecret   string
	CORSOrigins []string
	// SubmitLimit is nil when submit routes are not rate limited.
	SubmitLimit func(http.Handler) http.Handler
	Logger      *logrus.Entry
}

func New(
	opts Options,
	optionsH *handler.OptionsHandler,
	formH *handler.FormHandler,
	docH *handler.DocumentHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery(opts.Logger))
	r.Use(mw.Logger(opts.Logger))
	r.Use(mw.CORS(opts.CORSOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	limit := opts.SubmitLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		// Options
		r.Get("/options/branches", optionsH.Branches)
		r.Get("/options/locations", optionsH.Locations)
		r.Get("/options/work-scopes", optionsH.WorkScopes)

		// Forms
		r.Post("/forms", formH.Create)
		r.Get("/forms/{formId}", formH.Get)
		r.Delete("/forms/{formId}", formH.Delete)
		r.Put("/forms/{formId}/location", formH.SelectLocation)
		r.Put("/forms/{formId}/work-scope", formH.SelectWorkScope)
		r.Put("/forms/{formId}/file", formH.AttachFile)
		r.Delete("/forms/{formId}/file", formH.ClearFile)
		r.With(limit).Post("/forms/{formId}/submit", formH.Submit)
		r.Post("/forms/{formId}/reset", formH.Reset)

		// Documents
		r.With(limit).Post("/documents", docH.Create)
	})

	return r
}
