package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/parisxmas/materai/internal/backend/sheets"
	"github.com/parisxmas/materai/internal/handler"
	mw "github.com/parisxmas/materai/internal/middleware"
	"github.com/parisxmas/materai/internal/router"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}
			log := logrus.NewEntry(a.log)

			if s, ok := a.backend.(*sheets.Store); ok {
				if err := s.EnsureHeader(ctx); err != nil {
					log.WithError(err).Warn("could not check document sheet header")
				}
			}

			var limit func(http.Handler) http.Handler
			if a.cfg.RateLimit.Enabled {
				if limit, err = mw.RateLimit(a.cfg.RateLimit.Submit); err != nil {
					return err
				}
			}

			forms := a.forms()
			go forms.Run(ctx, time.Minute)

			r := router.New(router.Options{
				JWTSecret:   a.cfg.JWTSecret,
				CORSOrigins: a.cfg.CORSOrigins,
				SubmitLimit: limit,
				Logger:      log.WithField("component", "http"),
			},
				handler.NewOptionsHandler(a.backend),
				handler.NewFormHandler(forms, a.cfg.MaxUploadSize),
				handler.NewDocumentHandler(forms, a.cfg.MaxUploadSize),
			)

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           http.TimeoutHandler(r, a.cfg.RequestTimeout, `{"error":"request timed out"}`),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.WithFields(logrus.Fields{"addr": a.cfg.HTTPAddr, "backend": a.cfg.Backend}).Info("materai server starting")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides MATERAI_ADDR)")
	return cmd
}
