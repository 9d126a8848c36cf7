package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"VR_DB_PATH", "VR_PORT", "VR_BASE_URL", "VR_EXPORT_DIR", "VR_DEV_MODE", "VR_ADMIN_TOKEN",
	"VR_SMTP_HOST", "VR_SMTP_PORT", "VR_SMTP_USER", "VR_SMTP_PASS", "VR_SMTP_FROM",
	"VR_SMTP_TIMEOUT", "VR_NOTIFY_TO",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, 10*time.Second, cfg.SMTP.Timeout)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".visitor-register", "exports"), cfg.ExportDir)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VR_PORT", "8081")
	t.Setenv("VR_BASE_URL", "https://desk.example.com")
	t.Setenv("VR_EXPORT_DIR", "/tmp/exports")
	t.Setenv("VR_DEV_MODE", "true")
	t.Setenv("VR_ADMIN_TOKEN", "secret")
	t.Setenv("VR_SMTP_HOST", "smtp.example.com")
	t.Setenv("VR_SMTP_PORT", "465")
	t.Setenv("VR_SMTP_FROM", "desk@example.com")
	t.Setenv("VR_SMTP_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "https://desk.example.com", cfg.BaseURL)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "secret", cfg.AdminToken)
	assert.Equal(t, "465", cfg.SMTP.Port)
	assert.Equal(t, 3*time.Second, cfg.SMTP.Timeout)
	assert.Equal(t, "desk@example.com", cfg.NotifyTo, "recipient falls back to sender")
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"VR_PORT", "abc"},
		{"VR_PORT", "70000"},
		{"VR_SMTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("VR_EXPORT_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestSetPort(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"default base url follows port", "", "http://localhost:8081"},
		{"explicit base url kept", "https://desk.example.com", "https://desk.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("HOME", t.TempDir())
			t.Setenv("VR_PORT", "7000")
			t.Setenv("VR_BASE_URL", tt.baseURL)

			cfg, err := FromEnv()
			require.NoError(t, err)

			cfg.SetPort(8081)
			assert.Equal(t, 8081, cfg.Port)
			assert.Equal(t, ":8081", cfg.Addr())
			assert.Equal(t, tt.want, cfg.BaseURL)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VR_ADMIN_TOKEN=from-file\nVR_PORT=6000\n"), 0o600))
	t.Setenv("VR_PORT", "7000")
	// Unset so godotenv can fill it; t.Setenv restores it afterwards.
	require.NoError(t, os.Unsetenv("VR_ADMIN_TOKEN"))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("VR_ADMIN_TOKEN"))
	assert.Equal(t, "7000", os.Getenv("VR_PORT"), "existing variables win")
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
