package backend

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/materai/internal/models"
)

// DocumentHeader is the first row of the document sheet.
var DocumentHeader = []string{
	"ID", "Tanggal", "Cabang", "Nomor Ulok", "Lingkup Kerja",
	"Nama File", "Tipe File", "Ukuran", "Link File", "Dibuat Oleh",
}

// NewRecord stamps a payload with an id, time and author.
func NewRecord(sess models.Session, payload models.SubmissionPayload, fileURL string) *models.Document {
	createdBy := sess.Email
	if createdBy == "" {
		createdBy = sess.UserID
	}
	return &models.Document{
		ID:           uuid.NewString(),
		Branch:       payload.Branch,
		LocationCode: payload.LocationCode,
		WorkScope:    payload.WorkScope,
		FileName:     payload.File.Name,
		MimeType:     payload.File.MimeType,
		Size:         payload.File.Size,
		FileURL:      fileURL,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// DocumentRow lays a record out in DocumentHeader order.
func DocumentRow(d *models.Document) []string {
	return []string{
		d.ID, d.CreatedAt, d.Branch, d.LocationCode, d.WorkScope,
		d.FileName, d.MimeType, strconv.FormatInt(d.Size, 10), d.FileURL, d.CreatedBy,
	}
}
