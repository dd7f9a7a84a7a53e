// Package memory is a Backend held entirely in process, seeded from a catalog.
package memory

import (
	"context"
	"sync"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/models"
)

type Store struct {
	catalog backend.Catalog
	blobs   blob.Store

	mu   sync.RWMutex
	docs []models.Document
}

var _ backend.Backend = (*Store)(nil)

// New returns a store over catalog. blobs may be nil.
func New(catalog backend.Catalog, blobs blob.Store) *Store {
	return &Store{catalog: catalog, blobs: blobs}
}

func (s *Store) Branches(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Branches(), nil
}

func (s *Store) Locations(ctx context.Context, branch string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Locations(branch), nil
}

func (s *Store) WorkScopes(ctx context.Context, branch, locationCode string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.WorkScopes(branch, locationCode), nil
}

func (s *Store) CreateDocument(ctx context.Context, sess models.Session, payload models.SubmissionPayload) (*models.SubmissionResult, error) {
	link, err := backend.StoreAttachment(ctx, s.blobs, payload.File)
	if err != nil {
		return nil, err
	}
	doc := backend.NewRecord(sess, payload, link)

	s.mu.Lock()
	s.docs = append(s.docs, *doc)
	s.mu.Unlock()
	return doc, nil
}

// Documents returns the saved records, oldest first.
func (s *Store) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, len(s.docs))
	copy(out, s.docs)
	return out
}
