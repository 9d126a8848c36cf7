package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{
		ServerURL:  "http://frontdesk:9090",
		AdminToken: "s3cret-admin",
	}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(tmp, ".config", "vr", "config.yaml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not found: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg != (CLIConfig{}) {
		t.Error("expected zero-value config for missing file")
	}
}

func TestGetServerURL(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("VR_SERVER_URL", "http://custom:1234")
		t.Setenv("HOME", t.TempDir())

		if got := getServerURL(); got != "http://custom:1234" {
			t.Errorf("url = %q, want %q", got, "http://custom:1234")
		}
	})

	t.Run("config", func(t *testing.T) {
		t.Setenv("VR_SERVER_URL", "")
		t.Setenv("HOME", t.TempDir())
		if err := saveConfig(CLIConfig{ServerURL: "http://saved:7000"}); err != nil {
			t.Fatalf("save: %v", err)
		}

		if got := getServerURL(); got != "http://saved:7000" {
			t.Errorf("url = %q, want %q", got, "http://saved:7000")
		}
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("VR_SERVER_URL", "")
		t.Setenv("HOME", t.TempDir())

		if got := getServerURL(); got != "http://localhost:5000" {
			t.Errorf("url = %q, want %q", got, "http://localhost:5000")
		}
	})
}

func TestGetAdminTokenFromEnv(t *testing.T) {
	t.Setenv("VR_ADMIN_TOKEN", "envtoken")
	t.Setenv("HOME", t.TempDir())

	if got := getAdminToken(); got != "envtoken" {
		t.Errorf("token = %q, want %q", got, "envtoken")
	}
}

func TestGetAdminTokenFromConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VR_ADMIN_TOKEN", "")

	if err := saveConfig(CLIConfig{AdminToken: "configtoken"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := getAdminToken(); got != "configtoken" {
		t.Errorf("token = %q, want %q", got, "configtoken")
	}
}

func TestGetAdminTokenEmpty(t *testing.T) {
	t.Setenv("VR_ADMIN_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	if got := getAdminToken(); got != "" {
		t.Errorf("token = %q, want empty", got)
	}
}

func TestConfigSet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet("server-url", "http://desk:5000/"); err != nil {
		t.Fatalf("set server-url: %v", err)
	}
	if err := runConfigSet("admin-token", "tok"); err != nil {
		t.Fatalf("set admin-token: %v", err)
	}
	if err := runConfigSet("colour", "blue"); err == nil {
		t.Fatal("expected error for unknown key")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "http://desk:5000" {
		t.Errorf("server_url = %q, want trailing slash trimmed", cfg.ServerURL)
	}
	if cfg.AdminToken != "tok" {
		t.Errorf("admin_token = %q, want %q", cfg.AdminToken, "tok")
	}
}
