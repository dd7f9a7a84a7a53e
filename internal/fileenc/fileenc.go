// Package fileenc turns attached files into the base64 record the document
// stores accept, and back.
package fileenc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/parisxmas/materai/internal/models"
)

// DefaultMaxSize matches the multipart limit of the upload handlers.
const DefaultMaxSize = 12 << 20

var (
	ErrEmptyFile   = errors.New("file data is empty")
	ErrTooLarge    = errors.New("file exceeds the upload limit")
	ErrUnsupported = errors.New("file type is not accepted")
)

// DefaultAccept is the PDF-or-image rule of the submission page.
var DefaultAccept = []string{"application/pdf", "image/*"}

type Encoder struct {
	MaxSize int64
	Accept  []string
}

func New(maxSize int64, accept ...string) *Encoder {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Encoder{MaxSize: maxSize, Accept: accept}
}

var defaultEncoder = New(DefaultMaxSize, DefaultAccept...)

// Encode encodes att with the default size limit and accept list.
func Encode(att models.Attachment) (models.EncodedFile, error) {
	return defaultEncoder.Encode(att)
}

func (e *Encoder) Encode(att models.Attachment) (models.EncodedFile, error) {
	if len(att.Content) == 0 {
		return models.EncodedFile{}, ErrEmptyFile
	}
	if int64(len(att.Content)) > e.MaxSize {
		return models.EncodedFile{}, fmt.Errorf("%w (%d > %d bytes)", ErrTooLarge, len(att.Content), e.MaxSize)
	}

	mimeType := normalizeType(att.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = DetectContentType(att.Name, att.Content)
	}
	if !e.accepts(mimeType) {
		return models.EncodedFile{}, fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}

	return models.EncodedFile{
		Name:      att.Name,
		MimeType:  mimeType,
		Size:      int64(len(att.Content)),
		Base64:    base64.StdEncoding.EncodeToString(att.Content),
		Extension: extension(att.Name, mimeType),
	}, nil
}

// Read loads an attachment from r, refusing anything over maxSize.
func Read(name, declaredType string, r io.Reader, maxSize int64) (models.Attachment, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return models.Attachment{}, ErrTooLarge
	}
	if len(data) == 0 {
		return models.Attachment{}, ErrEmptyFile
	}
	return models.Attachment{
		Name:     filepath.Base(name),
		Size:     int64(len(data)),
		MimeType: normalizeType(declaredType),
		Content:  data,
	}, nil
}

// Decode returns the raw bytes of an encoded file.
func Decode(f models.EncodedFile) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return data, nil
}

// DetectContentType sniffs data and falls back to the file extension when the
// content alone is inconclusive.
func DetectContentType(fileName string, data []byte) string {
	detected := normalizeType(mimetype.Detect(data).String())
	if detected != "application/octet-stream" && detected != "text/plain" {
		return detected
	}
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct
	}
	return detected
}

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".heic": "image/heic",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".txt":  "text/plain",
}

func (e *Encoder) accepts(mimeType string) bool {
	if len(e.Accept) == 0 {
		return true
	}
	for _, pattern := range e.Accept {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
			continue
		}
		if mimeType == pattern {
			return true
		}
	}
	return false
}

func extension(name, mimeType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."); ext != "" {
		return ext
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return ""
}

func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
