// Package config loads runtime settings from the environment.
// A local .env file is read first when present; real environment
// variables always win.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Auth modes.
const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

// Config is the full application configuration.
type Config struct {
	Port          string
	Env           string
	JWTSecret     string
	AuthMode      string
	Backend       string
	DefaultTenant string
	CORSOrigins   []string

	DB       DBConfig
	Firebase FirebaseConfig
	Upload   UploadConfig
	R2       R2Config
	Email    EmailConfig
	Notifier NotifierConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	URL      string
	MaxConns int32
}

// FirebaseConfig holds Firebase Admin SDK settings.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

// UploadConfig configures local file storage.
type UploadConfig struct {
	Dir     string
	BaseURL string
}

// R2Config configures Cloudflare R2 storage. Enabled when AccountID is set.
type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// Enabled reports whether R2 credentials are present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKey != "" && c.SecretKey != ""
}

// EmailConfig configures the digest email sender.
type EmailConfig struct {
	ResendAPIKey string
	From         string
	PanelURL     string // prefixes action links in the digest
}

// NotifierConfig tunes the daily notification job.
type NotifierConfig struct {
	Enabled         bool
	Interval        time.Duration
	ScanConcurrency int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AuthMode:      getEnv("AUTH_MODE", AuthJWT),
		Backend:       getEnv("STORE_BACKEND", BackendPostgres),
		DefaultTenant: getEnv("DEFAULT_TENANT_ID", "default"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DB: DBConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getInt("DB_MAX_CONNS", 10)),
		},
		Firebase: firebaseFromEnv(),
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "uploads"),
			BaseURL: getEnv("UPLOAD_BASE_URL", "/api/files"),
		},
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			AccessKey: os.Getenv("R2_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:    os.Getenv("R2_BUCKET"),
			PublicURL: os.Getenv("R2_PUBLIC_URL"),
		},
		Email: EmailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("EMAIL_FROM", "Coaching Panel <noreply@example.com>"),
			PanelURL:     os.Getenv("PANEL_URL"),
		},
		Notifier: NotifierConfig{
			Enabled:         getBool("NOTIFIER_ENABLED", true),
			Interval:        getDuration("NOTIFIER_INTERVAL", 24*time.Hour),
			ScanConcurrency: getInt("NOTIFIER_SCAN_CONCURRENCY", 8),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFirebase reads only the Firebase settings, for tools that talk to
// Firestore directly.
func LoadFirebase() (FirebaseConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] could not read .env: %v", err)
	}
	fb := firebaseFromEnv()
	if fb.ProjectID == "" {
		return fb, errors.New("FIREBASE_PROJECT_ID is required")
	}
	return fb, nil
}

func firebaseFromEnv() FirebaseConfig {
	return FirebaseConfig{
		ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		CredentialsJSON: os.Getenv("FIREBASE_SERVICE_ACCOUNT"),
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DB.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	switch c.AuthMode {
	case AuthJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when AUTH_MODE=firebase")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.Notifier.ScanConcurrency < 1 {
		c.Notifier.ScanConcurrency = 1
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
