// Package blob stores submitted file content next to the spreadsheet rows.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Store writes one object and returns a link to it.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

var ErrExists = errors.New("blob already exists")

type Driver string

const (
	DriverFS Driver = "fs"
	DriverS3 Driver = "s3"
)

type Config struct {
	Driver  Driver
	Dir     string
	BaseURL string
	S3      S3Config
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFS, "":
		return NewFS(cfg.Dir, cfg.BaseURL)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("blob: unknown driver %q", cfg.Driver)
	}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Key returns a collision-free object key that keeps the original file name
// readable.
func Key(fileName string) string {
	name := unsafeName.ReplaceAllString(filepath.Base(fileName), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s_%s", uuid.New().String(), name)
}
