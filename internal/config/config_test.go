package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryBackendDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthJWT, cfg.AuthMode)
	assert.Equal(t, "default", cfg.DefaultTenant)
	assert.Equal(t, 24*time.Hour, cfg.Notifier.Interval)
	assert.Equal(t, 8, cfg.Notifier.ScanConcurrency)
	assert.True(t, cfg.Notifier.Enabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "postgres without url",
			env:  map[string]string{"STORE_BACKEND": BackendPostgres, "JWT_SECRET": "s"},
		},
		{
			name: "firestore without project",
			env:  map[string]string{"STORE_BACKEND": BackendFirestore, "JWT_SECRET": "s"},
		},
		{
			name: "jwt without secret",
			env:  map[string]string{"STORE_BACKEND": BackendMemory},
		},
		{
			name: "unknown backend",
			env:  map[string]string{"STORE_BACKEND": "mongo", "JWT_SECRET": "s"},
		},
		{
			name: "unknown auth mode",
			env:  map[string]string{"STORE_BACKEND": BackendMemory, "AUTH_MODE": "oauth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("DATABASE_URL", "")
			t.Setenv("FIREBASE_PROJECT_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NOTIFIER_SCAN_CONCURRENCY", "lots")
	t.Setenv("NOTIFIER_INTERVAL", "-5m")
	t.Setenv("NOTIFIER_ENABLED", "nope")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Notifier.ScanConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Notifier.Interval)
	assert.True(t, cfg.Notifier.Enabled)
}

func TestLoadFirebase(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	_, err := LoadFirebase()
	assert.Error(t, err)

	t.Setenv("FIREBASE_PROJECT_ID", "coaching-prod")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "/etc/sa.json")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT", "")
	fb, err := LoadFirebase()
	require.NoError(t, err)
	assert.Equal(t, FirebaseConfig{ProjectID: "coaching-prod", CredentialsFile: "/etc/sa.json"}, fb)
}
