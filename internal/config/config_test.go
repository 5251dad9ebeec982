package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("info=%+v, want no file and no port", info)
	}
	def := DefaultConfig()
	if cfg.Server.Port != def.Server.Port || cfg.Upload.MaxFiles != def.Upload.MaxFiles {
		t.Fatalf("cfg=%+v, want defaults", cfg)
	}
	if cfg.Session.TTL.Duration != 2*time.Hour {
		t.Fatalf("ttl=%v, want 2h", cfg.Session.TTL.Duration)
	}
}

func TestLoadFromPath_ParsesToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[server]
port = 9000
open_browser = false

[upload]
max_files = 3

[session]
ttl = "45m"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, info, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("info=%+v, want file found with port", info)
	}
	if cfg.Server.Port != 9000 || cfg.Server.OpenBrowser {
		t.Fatalf("server=%+v", cfg.Server)
	}
	if cfg.Upload.MaxFiles != 3 || cfg.Upload.MaxFileSizeMB != 20 {
		t.Fatalf("upload=%+v", cfg.Upload)
	}
	if cfg.Session.TTL.Duration != 45*time.Minute {
		t.Fatalf("ttl=%v, want 45m", cfg.Session.TTL.Duration)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoadFromPath_EnvOverridesPort(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "8123")
	t.Setenv("DASHBOARD_SESSION_TTL", "10m")

	cfg, info, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.Port != 8123 || !info.PortSpecified {
		t.Fatalf("port=%d specified=%v", cfg.Server.Port, info.PortSpecified)
	}
	if cfg.Session.TTL.Duration != 10*time.Minute {
		t.Fatalf("ttl=%v, want 10m", cfg.Session.TTL.Duration)
	}
}

func TestLoadFromPath_EnvOverridesToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[upload]\nmax_files = 3\nburst = 4\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DASHBOARD_MAX_FILES", "9")
	t.Setenv("DASHBOARD_OPEN_BROWSER", "false")

	cfg, info, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if info.PortSpecified {
		t.Fatalf("port should not be marked as specified")
	}
	if cfg.Upload.MaxFiles != 9 || cfg.Upload.Burst != 4 || cfg.Server.OpenBrowser {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadFromPath_RejectsBadEnv(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "not-a-port")
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected env parse error")
	}
}

func TestLoadFromPath_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[log]\nformat = \"xml\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected validation error")
	}

	if err := os.WriteFile(path, []byte("[session]\nttl = \"soon\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := DefaultConfig()
	cfg.Server.Port = 7001
	cfg.Session.TTL = Duration{30 * time.Minute}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got.Server.Port != 7001 || got.Session.TTL.Duration != 30*time.Minute {
		t.Fatalf("got=%+v", got)
	}
}

func TestEnsureDataDir_Absolute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := DefaultConfig()
	cfg.Data.DataDir = dir

	got, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if got != dir {
		t.Fatalf("dir=%q, want %q", got, dir)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Upload.RatePerSecond != 2 || cfg.Upload.Burst != 5 {
		t.Fatalf("upload=%+v", cfg.Upload)
	}

	cfg.Upload.RatePerSecond = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative rate")
	}

	cfg.Upload.RatePerSecond = 1
	cfg.Upload.Burst = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero burst")
	}

	cfg.Upload.RatePerSecond = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("rate limiting disabled should validate: %v", err)
	}
}
