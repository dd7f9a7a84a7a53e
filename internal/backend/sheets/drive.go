package sheets

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/parisxmas/materai/internal/blob"
)

// Drive uploads attachments into one Drive folder.
type Drive struct {
	files    *drive.FilesService
	folderID string
}

var _ blob.Store = (*Drive)(nil)

func (d *Drive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	meta := &drive.File{Name: key, Parents: []string{d.folderID}, MimeType: contentType}
	f, err := d.files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrapf(err, "drive: upload %s", key)
	}
	if f.WebViewLink != "" {
		return f.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + f.Id + "/view", nil
}
