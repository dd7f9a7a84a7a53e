package backend

import (
	"context"
	"fmt"

	"github.com/parisxmas/materai/internal/blob"
	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/models"
)

// StoreAttachment decodes the payload file and writes it to the blob store.
// A nil store keeps only the row; the returned link is then empty.
func StoreAttachment(ctx context.Context, store blob.Store, f models.EncodedFile) (string, error) {
	if store == nil {
		return "", nil
	}
	data, err := fileenc.Decode(f)
	if err != nil {
		return "", fmt.Errorf("attachment: %w", err)
	}
	link, err := store.Put(ctx, blob.Key(f.Name), data, f.MimeType)
	if err != nil {
		return "", fmt.Errorf("attachment: %w", err)
	}
	return link, nil
}
