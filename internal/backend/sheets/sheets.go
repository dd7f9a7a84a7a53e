// Package sheets stores documents in a Google spreadsheet. The location
// catalog is read from one range and every submission is appended as a row
// to the document sheet; file content goes to a Drive folder or any other
// blob store.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/models"
)

const (
	DefaultCatalogRange  = "Ulok!A2:C"
	DefaultDocumentSheet = "Dokumen"
)

type Config struct {
	SpreadsheetID   string
	CatalogRange    string
	DocumentSheet   string
	DriveFolderID   string
	CredentialsFile string
}

type Store struct {
	id            string
	catalogRange  string
	documentSheet string
	values        *sheets.SpreadsheetsValuesService
	files         blob.Store
	log           *logrus.Entry
}

var _ backend.Backend = (*Store)(nil)

// ClientOptions resolves Google credentials from a service account file or,
// when none is given, from the application default credentials.
func ClientOptions(ctx context.Context, credentialsFile string) ([]option.ClientOption, error) {
	scopes := []string{sheets.SpreadsheetsScope, drive.DriveFileScope}
	var (
		creds *google.Credentials
		err   error
	)
	if credentialsFile != "" {
		data, rerr := os.ReadFile(credentialsFile)
		if rerr != nil {
			return nil, errors.Wrap(rerr, "sheets: read credentials")
		}
		creds, err = google.CredentialsFromJSON(ctx, data, scopes...)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, scopes...)
	}
	if err != nil {
		return nil, errors.Wrap(err, "sheets: credentials")
	}
	return []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, creds.TokenSource))}, nil
}

// New connects to the spreadsheet. Attachments are uploaded to
// cfg.DriveFolderID when set, otherwise to files (which may be nil).
// Without opts the credentials come from ClientOptions.
func New(ctx context.Context, cfg Config, files blob.Store, log *logrus.Entry, opts ...option.ClientOption) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheets: spreadsheet id required")
	}
	if len(opts) == 0 {
		var err error
		if opts, err = ClientOptions(ctx, cfg.CredentialsFile); err != nil {
			return nil, err
		}
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "sheets: new service")
	}
	if cfg.DriveFolderID != "" {
		d, err := drive.NewService(ctx, opts...)
		if err != nil {
			return nil, errors.Wrap(err, "sheets: new drive service")
		}
		files = &Drive{files: d.Files, folderID: cfg.DriveFolderID}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Store{
		id:            cfg.SpreadsheetID,
		catalogRange:  cfg.CatalogRange,
		documentSheet: cfg.DocumentSheet,
		values:        svc.Spreadsheets.Values,
		files:         files,
		log:           log.WithField("component", "sheets"),
	}
	if s.catalogRange == "" {
		s.catalogRange = DefaultCatalogRange
	}
	if s.documentSheet == "" {
		s.documentSheet = DefaultDocumentSheet
	}
	return s, nil
}

func (s *Store) headerRange() string {
	return fmt.Sprintf("%s!A1:%s1", s.documentSheet, column(len(backend.DocumentHeader)))
}

// EnsureHeader writes the document header when the sheet's first row is empty.
func (s *Store) EnsureHeader(ctx context.Context) error {
	rng := s.headerRange()
	resp, err := s.values.Get(s.id, rng).Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "sheets: read %s", rng)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	_, err = s.values.Update(s.id, rng, &sheets.ValueRange{Values: [][]any{toCells(backend.DocumentHeader)}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "sheets: write %s", rng)
	}
	s.log.WithField("range", rng).Info("document header written")
	return nil
}

func (s *Store) catalog(ctx context.Context) (backend.Catalog, error) {
	resp, err := s.values.Get(s.id, s.catalogRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "sheets: read %s", s.catalogRange)
	}
	return backend.CatalogFromValues(resp.Values), nil
}

func (s *Store) Branches(ctx context.Context) ([]string, error) {
	c, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Branches(), nil
}

func (s *Store) Locations(ctx context.Context, branch string) ([]string, error) {
	c, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Locations(branch), nil
}

func (s *Store) WorkScopes(ctx context.Context, branch, locationCode string) ([]string, error) {
	c, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.WorkScopes(branch, locationCode), nil
}

func (s *Store) CreateDocument(ctx context.Context, sess models.Session, payload models.SubmissionPayload) (*models.SubmissionResult, error) {
	link, err := backend.StoreAttachment(ctx, s.files, payload.File)
	if err != nil {
		return nil, err
	}
	doc := backend.NewRecord(sess, payload, link)

	rng := fmt.Sprintf("%s!A:%s", s.documentSheet, column(len(backend.DocumentHeader)))
	resp, err := s.values.Append(s.id, rng, &sheets.ValueRange{Values: [][]any{toCells(backend.DocumentRow(doc))}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "sheets: append document")
	}
	if resp.Updates != nil {
		s.log.WithFields(logrus.Fields{"id": doc.ID, "range": resp.Updates.UpdatedRange}).Debug("document row appended")
	}
	return doc, nil
}

func toCells(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// column converts a 1-based index to a sheet column letter (1 -> A, 27 -> AA).
func column(n int) string {
	var b strings.Builder
	for n > 0 {
		n--
		b.WriteByte(byte('A' + n%26))
		n /= 26
	}
	r := []byte(b.String())
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
