// Package workbook keeps the location catalog and the document log in a local
// .xlsx file. The first row of each sheet is a header.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/models"
)

const (
	CatalogSheet  = "Ulok"
	DocumentSheet = "Dokumen"
)

var catalogHeader = []string{"Cabang", "Nomor Ulok", "Lingkup Kerja"}

type Config struct {
	Path          string
	CatalogSheet  string
	DocumentSheet string
}

type Store struct {
	path     string
	catalog  string
	document string
	blobs    blob.Store
	log      *logrus.Entry

	mu   sync.Mutex
	file *excelize.File
}

var _ backend.Backend = (*Store)(nil)

// Open loads the workbook at cfg.Path, creating it with empty sheets when it
// does not exist yet.
func Open(cfg Config, blobs blob.Store, log *logrus.Entry) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("workbook: path required")
	}
	s := &Store{
		path:     cfg.Path,
		catalog:  cfg.CatalogSheet,
		document: cfg.DocumentSheet,
		blobs:    blobs,
		log:      log,
	}
	if s.catalog == "" {
		s.catalog = CatalogSheet
	}
	if s.document == "" {
		s.document = DocumentSheet
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithField("component", "workbook")

	f, err := excelize.OpenFile(cfg.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f = excelize.NewFile()
		s.log.WithField("path", cfg.Path).Info("creating workbook")
	case err != nil:
		return nil, fmt.Errorf("workbook: open %s: %w", cfg.Path, err)
	}
	s.file = f
	if err := s.ensureSheets(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSheets() error {
	created := false
	for _, sheet := range []struct {
		name   string
		header []string
	}{{s.catalog, catalogHeader}, {s.document, backend.DocumentHeader}} {
		idx, err := s.file.GetSheetIndex(sheet.name)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		if idx >= 0 {
			continue
		}
		if _, err := s.file.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("workbook: add sheet %s: %w", sheet.name, err)
		}
		if err := s.setRow(sheet.name, 1, sheet.header); err != nil {
			return err
		}
		created = true
	}
	if !created {
		return nil
	}
	// A fresh file carries excelize's default sheet.
	if idx, _ := s.file.GetSheetIndex("Sheet1"); idx >= 0 && s.catalog != "Sheet1" && s.document != "Sheet1" {
		if err := s.file.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	}
	return s.save()
}

func (s *Store) setRow(sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := s.file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("workbook: write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (s *Store) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("workbook: save %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) readCatalog(ctx context.Context) (backend.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.file.GetRows(s.catalog)
	if err != nil {
		return nil, fmt.Errorf("workbook: read %s: %w", s.catalog, err)
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return backend.CatalogFromRows(rows), nil
}

func (s *Store) Branches(ctx context.Context) ([]string, error) {
	c, err := s.readCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Branches(), nil
}

func (s *Store) Locations(ctx context.Context, branch string) ([]string, error) {
	c, err := s.readCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Locations(branch), nil
}

func (s *Store) WorkScopes(ctx context.Context, branch, locationCode string) ([]string, error) {
	c, err := s.readCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.WorkScopes(branch, locationCode), nil
}

// AddCatalogRows appends rows to the catalog sheet.
func (s *Store) AddCatalogRows(rows backend.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.file.GetRows(s.catalog)
	if err != nil {
		return fmt.Errorf("workbook: read %s: %w", s.catalog, err)
	}
	next := len(existing) + 1
	for i, r := range rows {
		if err := s.setRow(s.catalog, next+i, []string{r.Branch, r.LocationCode, r.WorkScope}); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *Store) CreateDocument(ctx context.Context, sess models.Session, payload models.SubmissionPayload) (*models.SubmissionResult, error) {
	link, err := backend.StoreAttachment(ctx, s.blobs, payload.File)
	if err != nil {
		return nil, err
	}
	doc := backend.NewRecord(sess, payload, link)

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.file.GetRows(s.document)
	if err != nil {
		return nil, fmt.Errorf("workbook: read %s: %w", s.document, err)
	}
	if err := s.setRow(s.document, len(rows)+1, backend.DocumentRow(doc)); err != nil {
		return nil, err
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": doc.ID, "row": len(rows) + 1}).Debug("document row appended")
	return doc, nil
}

// Documents returns the rows of the document sheet without the header.
func (s *Store) Documents() ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.file.GetRows(s.document)
	if err != nil {
		return nil, fmt.Errorf("workbook: read %s: %w", s.document, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	return rows[1:], nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
