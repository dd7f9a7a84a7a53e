package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/backend/memory"
	"github.com/parisxmas/materai/internal/backend/sheets"
	"github.com/parisxmas/materai/internal/backend/webapp"
	"github.com/parisxmas/materai/internal/backend/workbook"
	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/config"
	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/logging"
	"github.com/parisxmas/materai/internal/service"
)

type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	backend backend.Backend
	close   func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogrusLevel(), cfg.GelfAddr, cfg.Environment == "production")
	b, closeFn, err := openBackend(ctx, cfg, logrus.NewEntry(log))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, backend: b, close: closeFn}, nil
}

func (a *app) forms() *service.FormService {
	return service.NewFormService(a.backend, service.FormOptions{
		Encoder: fileenc.New(a.cfg.MaxUploadSize, fileenc.DefaultAccept...).Encode,
		Dedupe:  a.cfg.DedupeOptions,
		TTL:     a.cfg.FormTTL,
	}, logrus.NewEntry(a.log))
}

func openBlob(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	return blob.Open(ctx, blob.Config{
		Driver:  blob.Driver(cfg.Blob.Driver),
		Dir:     cfg.Blob.Dir,
		BaseURL: cfg.Blob.BaseURL,
		S3: blob.S3Config{
			Region:          cfg.Blob.S3Region,
			Bucket:          cfg.Blob.S3Bucket,
			Endpoint:        cfg.Blob.S3Endpoint,
			AccessKeyID:     cfg.Blob.S3AccessKey,
			SecretAccessKey: cfg.Blob.S3SecretKey,
			PathStyle:       cfg.Blob.S3PathStyle,
		},
	})
}

func noClose() error { return nil }

// openBackend builds the configured document backend. The returned func
// releases it.
func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Entry) (backend.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendWebApp:
		c, err := webapp.New(webapp.Config{URL: cfg.WebApp.URL, Token: cfg.WebApp.Token, Timeout: cfg.WebApp.Timeout})
		if err != nil {
			return nil, nil, err
		}
		return c, noClose, nil
	}

	blobs, err := openBlob(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case config.BackendSheets:
		s, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CatalogRange:    cfg.Sheets.CatalogRange,
			DocumentSheet:   cfg.Sheets.DocumentSheet,
			DriveFolderID:   cfg.Sheets.DriveFolderID,
			CredentialsFile: cfg.Sheets.CredentialsFile,
		}, blobs, log)
		if err != nil {
			return nil, nil, err
		}
		return s, noClose, nil
	case config.BackendWorkbook:
		wb, err := workbook.Open(workbook.Config{
			Path:          cfg.Workbook.Path,
			CatalogSheet:  cfg.Workbook.CatalogSheet,
			DocumentSheet: cfg.Workbook.DocumentSheet,
		}, blobs, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.CatalogFile != "" {
			if err := seedWorkbook(ctx, wb, cfg.CatalogFile); err != nil {
				wb.Close()
				return nil, nil, err
			}
		}
		return wb, wb.Close, nil
	case config.BackendMemory:
		var catalog backend.Catalog
		if cfg.CatalogFile != "" {
			if catalog, err = backend.LoadCatalogFile(cfg.CatalogFile); err != nil {
				return nil, nil, err
			}
		}
		return memory.New(catalog, blobs), noClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// seedWorkbook copies the catalog file into an empty workbook.
func seedWorkbook(ctx context.Context, wb *workbook.Store, path string) error {
	branches, err := wb.Branches(ctx)
	if err != nil {
		return err
	}
	if len(branches) > 0 {
		return nil
	}
	catalog, err := backend.LoadCatalogFile(path)
	if err != nil {
		return err
	}
	return wb.AddCatalogRows(catalog)
}
