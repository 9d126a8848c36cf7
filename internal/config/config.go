// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/evcraddock/visitor-register/internal/email"
)

// Config holds server configuration.
type Config struct {
	DBPath     string
	Port       int
	BaseURL    string // e.g. http://localhost:5000
	ExportDir  string
	DevMode    bool
	AdminToken string
	SMTP       email.SMTPConfig
	NotifyTo   string

	baseURLSet bool
}

// LoadDotEnv loads variables from path (default ".env") into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file, using environment", "path", path)
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("loaded .env file", "path", path)
	return nil
}

// FromEnv creates a Config from environment variables.
func FromEnv() (Config, error) {
	port, err := strconv.Atoi(envOrDefault("VR_PORT", "5000"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid VR_PORT %q", os.Getenv("VR_PORT"))
	}

	timeout, err := time.ParseDuration(envOrDefault("VR_SMTP_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid VR_SMTP_TIMEOUT: %w", err)
	}

	cfg := Config{
		DBPath:     os.Getenv("VR_DB_PATH"),
		Port:       port,
		BaseURL:    envOrDefault("VR_BASE_URL", defaultBaseURL(port)),
		ExportDir:  os.Getenv("VR_EXPORT_DIR"),
		DevMode:    os.Getenv("VR_DEV_MODE") == "true",
		AdminToken: os.Getenv("VR_ADMIN_TOKEN"),
		SMTP: email.SMTPConfig{
			Host:    os.Getenv("VR_SMTP_HOST"),
			Port:    envOrDefault("VR_SMTP_PORT", "587"),
			User:    os.Getenv("VR_SMTP_USER"),
			Pass:    os.Getenv("VR_SMTP_PASS"),
			From:    os.Getenv("VR_SMTP_FROM"),
			Timeout: timeout,
		},
		NotifyTo: os.Getenv("VR_NOTIFY_TO"),

		baseURLSet: os.Getenv("VR_BASE_URL") != "",
	}

	if cfg.ExportDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.ExportDir = filepath.Join(dir, "exports")
	}
	if cfg.NotifyTo == "" {
		cfg.NotifyTo = cfg.SMTP.From
	}

	return cfg, nil
}

// SetPort changes the listen port. The base URL follows the port unless
// VR_BASE_URL set it explicitly.
func (c *Config) SetPort(port int) {
	c.Port = port
	if !c.baseURLSet {
		c.BaseURL = defaultBaseURL(port)
	}
}

func defaultBaseURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".visitor-register"), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
