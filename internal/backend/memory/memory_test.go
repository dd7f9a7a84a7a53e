package memory

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/models"
)

var catalog = backend.Catalog{
	{Branch: "JKT01", LocationCode: "ULOK-100", WorkScope: "Renovasi"},
	{Branch: "JKT01", LocationCode: "ULOK-100", WorkScope: "Pembangunan"},
	{Branch: "JKT01", LocationCode: "ULOK-200", WorkScope: "Renovasi"},
	{Branch: "BDG02", LocationCode: "ULOK-900", WorkScope: "Sipil"},
}

func TestStore_Options(t *testing.T) {
	s := New(catalog, nil)
	ctx := context.Background()

	branches, err := s.Branches(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"JKT01", "BDG02"}, branches)

	locs, err := s.Locations(ctx, "jkt01")
	require.NoError(t, err)
	require.Equal(t, []string{"ULOK-100", "ULOK-200"}, locs)

	scopes, err := s.WorkScopes(ctx, "JKT01", "ULOK-100")
	require.NoError(t, err)
	require.Equal(t, []string{"Renovasi", "Pembangunan"}, scopes)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Branches(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_CreateDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := blob.NewFS(dir, "")
	require.NoError(t, err)
	s := New(catalog, fs)

	payload := models.SubmissionPayload{
		Branch: "JKT01", LocationCode: "ULOK-100", WorkScope: "Renovasi",
		File: models.EncodedFile{
			Name: "dok.pdf", MimeType: "application/pdf", Size: 4,
			Base64: base64.StdEncoding.EncodeToString([]byte("%PDF")), Extension: "pdf",
		},
	}
	sess := models.Session{UserID: "u1", Email: "a@b.id", Branch: "JKT01"}
	doc, err := s.CreateDocument(context.Background(), sess, payload)
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	require.Equal(t, "a@b.id", doc.CreatedBy)
	require.Equal(t, "ULOK-100", doc.LocationCode)
	require.NotEmpty(t, doc.FileURL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data))

	docs := s.Documents()
	require.Len(t, docs, 1)
	require.Equal(t, doc.ID, docs[0].ID)
}
