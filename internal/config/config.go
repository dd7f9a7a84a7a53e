package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendWorkbook = "workbook"
	BackendSheets   = "sheets"
	BackendWebApp   = "webapp"
)

type SheetsOptions struct {
	SpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	CatalogRange    string `env:"SHEETS_CATALOG_RANGE" envDefault:"Ulok!A2:C"`
	DocumentSheet   string `env:"SHEETS_DOCUMENT_SHEET" envDefault:"Dokumen"`
	DriveFolderID   string `env:"SHEETS_DRIVE_FOLDER_ID"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type WebAppOptions struct {
	URL     string        `env:"WEBAPP_URL"`
	Token   string        `env:"WEBAPP_TOKEN"`
	Timeout time.Duration `env:"WEBAPP_TIMEOUT" envDefault:"20s"`
}

type WorkbookOptions struct {
	Path          string `env:"WORKBOOK_PATH" envDefault:"materai.xlsx"`
	CatalogSheet  string `env:"WORKBOOK_CATALOG_SHEET" envDefault:"Ulok"`
	DocumentSheet string `env:"WORKBOOK_DOCUMENT_SHEET" envDefault:"Dokumen"`
}

type BlobOptions struct {
	Driver  string `env:"BLOB_DRIVER" envDefault:"fs"`
	Dir     string `env:"BLOB_DIR" envDefault:"uploads"`
	BaseURL string `env:"BLOB_BASE_URL"`

	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`
}

type RateLimitOptions struct {
	Enabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Submit  string `env:"RATE_LIMIT_SUBMIT" envDefault:"30-M"`
}

type Config struct {
	HTTPAddr       string        `env:"MATERAI_ADDR" envDefault:":8080"`
	JWTSecret      string        `env:"MATERAI_JWT_SECRET" envDefault:"materai-dev-secret-change-me"`
	Environment    string        `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	GelfAddr       string        `env:"GELF_ADDR"`
	Backend        string        `env:"MATERAI_BACKEND" envDefault:"memory"`
	CatalogFile    string        `env:"MATERAI_CATALOG_FILE"`
	MaxUploadSize  int64         `env:"MAX_UPLOAD_SIZE" envDefault:"12582912"`
	DedupeOptions  bool          `env:"MATERAI_DEDUPE_OPTIONS" envDefault:"false"`
	FormTTL        time.Duration `env:"MATERAI_FORM_TTL" envDefault:"30m"`
	RequestTimeout time.Duration `env:"MATERAI_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Sheets    SheetsOptions
	WebApp    WebAppOptions
	Workbook  WorkbookOptions
	Blob      BlobOptions
	RateLimit RateLimitOptions
}

// LoadEnv loads the env files that exist, skipping missing ones.
func LoadEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads .env and .env.local, then the process environment.
func Load() (*Config, error) {
	if err := LoadEnv(".env", ".env.local"); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	if c.FormTTL <= 0 {
		return fmt.Errorf("config: MATERAI_FORM_TTL must be positive, got %s", c.FormTTL)
	}
	switch c.Backend {
	case BackendMemory, BackendWorkbook:
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("config: SHEETS_SPREADSHEET_ID is required for the sheets backend")
		}
	case BackendWebApp:
		if c.WebApp.URL == "" {
			return fmt.Errorf("config: WEBAPP_URL is required for the webapp backend")
		}
	default:
		return fmt.Errorf("config: unknown MATERAI_BACKEND %q", c.Backend)
	}
	switch c.Blob.Driver {
	case "fs":
	case "s3":
		if c.Blob.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET is required when BLOB_DRIVER is 's3'")
		}
	default:
		return fmt.Errorf("config: BLOB_DRIVER must be 'fs' or 's3', got '%s'", c.Blob.Driver)
	}
	if c.Environment == "production" && c.JWTSecret == "materai-dev-secret-change-me" {
		return fmt.Errorf("config: MATERAI_JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) LogrusLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
