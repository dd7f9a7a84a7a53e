package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, int64(12<<20), cfg.MaxUploadSize)
	require.Equal(t, 30*time.Minute, cfg.FormTTL)
	require.False(t, cfg.DedupeOptions)
	require.Equal(t, "Ulok!A2:C", cfg.Sheets.CatalogRange)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, logrus.InfoLevel, cfg.LogrusLevel())
}

func TestParse_FromEnv(t *testing.T) {
	t.Setenv("MATERAI_BACKEND", "webapp")
	t.Setenv("WEBAPP_URL", "https://script.example.com/exec")
	t.Setenv("MATERAI_DEDUPE_OPTIONS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.id,https://b.id")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "https://script.example.com/exec", cfg.WebApp.URL)
	require.True(t, cfg.DedupeOptions)
	require.Equal(t, []string{"https://a.id", "https://b.id"}, cfg.CORSOrigins)
	require.Equal(t, logrus.DebugLevel, cfg.LogrusLevel())
}

func TestValidate(t *testing.T) {
	cases := map[string]map[string]string{
		"sheets without id":     {"MATERAI_BACKEND": "sheets"},
		"webapp without url":    {"MATERAI_BACKEND": "webapp"},
		"unknown backend":       {"MATERAI_BACKEND": "oracle"},
		"s3 without bucket":     {"BLOB_DRIVER": "s3"},
		"unknown blob driver":   {"BLOB_DRIVER": "ftp"},
		"zero upload size":      {"MAX_UPLOAD_SIZE": "0"},
		"production dev secret": {"GO_APP_ENV": "production"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Parse()
			require.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MATERAI_TEST_VALUE=from-file\n"), 0o644))
	t.Setenv("MATERAI_TEST_VALUE", "")
	os.Unsetenv("MATERAI_TEST_VALUE")

	require.NoError(t, LoadEnv(path, filepath.Join(dir, ".env.local")))
	require.Equal(t, "from-file", os.Getenv("MATERAI_TEST_VALUE"))
}
