package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config or .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, k := range []string{
		"SPOTIFY_CLIENT_ID", "CUE_SPOTIFY_CLIENT_ID", "CUE_SPOTIFY_DEVICE", "CUE_POLL_INTERVAL",
		"CUE_MIRROR_ENABLED", "CUE_LOG_LEVEL", "CUE_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Engine.PollIntervalDuration(); got != 500*time.Millisecond {
		t.Errorf("poll interval = %v, want 500ms", got)
	}
	if got := cfg.Engine.NearEndThresholdDuration(); got != time.Second {
		t.Errorf("near-end threshold = %v, want 1s", got)
	}
	if got := cfg.Engine.RetryBackoffDuration(); got != 500*time.Millisecond {
		t.Errorf("retry backoff = %v, want 500ms", got)
	}
	if got := cfg.Engine.GuardDelayDuration(); got != 2*time.Second {
		t.Errorf("guard delay = %v, want 2s", got)
	}
	if !cfg.Mirror.Enabled {
		t.Error("mirror should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".cuerc"), `
[spotify]
client_id = "from-file"

[engine]
poll_interval_ms = 750

[log]
level = "debug"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "from-file" {
		t.Errorf("client_id = %q, want from-file", cfg.Spotify.ClientID)
	}
	if cfg.Engine.PollInterval != 750 {
		t.Errorf("poll_interval_ms = %d, want 750", cfg.Engine.PollInterval)
	}
	if !cfg.Mirror.Enabled || !cfg.Engine.ImportQueue {
		t.Error("booleans missing from the file should keep their defaults")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestXDGConfigPath(t *testing.T) {
	dir := isolate(t)
	xdg := filepath.Join(dir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "cue", "config.toml"), "[mirror]\nenabled = false\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mirror.Enabled {
		t.Error("mirror.enabled = true, want false from XDG config")
	}
	if got := Path(""); got != filepath.Join(xdg, "cue", "config.toml") {
		t.Errorf("Path() = %q", got)
	}
}

func TestCuercWinsOverXDG(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".cuerc"), "[spotify]\nclient_id = \"from-cuerc\"\n")
	writeFile(t, filepath.Join(dir, ".config", "cue", "config.toml"), "[spotify]\nclient_id = \"from-xdg\"\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "from-cuerc" {
		t.Errorf("client_id = %q, want from-cuerc", cfg.Spotify.ClientID)
	}
	if got := Path(""); got != filepath.Join(dir, ".cuerc") {
		t.Errorf("Path() = %q, want ~/.cuerc", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".cuerc"), "[spotify]\nclient_id = \"from-file\"\n")
	t.Setenv("CUE_SPOTIFY_CLIENT_ID", "from-env")
	t.Setenv("CUE_POLL_INTERVAL", "250")
	t.Setenv("CUE_MIRROR_ENABLED", "false")
	t.Setenv("CUE_LOG_FILE", "/tmp/cue.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "from-env" {
		t.Errorf("client_id = %q, want from-env", cfg.Spotify.ClientID)
	}
	if cfg.Engine.PollInterval != 250 {
		t.Errorf("poll interval = %d, want 250", cfg.Engine.PollInterval)
	}
	if cfg.Mirror.Enabled {
		t.Error("mirror.enabled not overridden")
	}
	if cfg.Log.File != "/tmp/cue.log" {
		t.Errorf("log file = %q", cfg.Log.File)
	}
}

func TestDotEnvSuppliesClientID(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "SPOTIFY_CLIENT_ID=dotenv-id\n")
	t.Cleanup(func() { _ = os.Unsetenv("SPOTIFY_CLIENT_ID") })
	_ = os.Unsetenv("SPOTIFY_CLIENT_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "dotenv-id" {
		t.Errorf("client_id = %q, want dotenv-id", cfg.Spotify.ClientID)
	}
}

func TestLoadFromMissing(t *testing.T) {
	isolate(t)
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFrom() on a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"poll too fast", func(c *Config) { c.Engine.PollInterval = 10 }, "engine: poll_interval_ms"},
		{"negative guard", func(c *Config) { c.Engine.GuardDelay = -1 }, "guard_delay_ms"},
		{"mirror without name", func(c *Config) { c.Mirror.Name = "" }, "mirror: name"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "tui: invalid theme"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log: invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.TUI.Theme = "neon"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	if !strings.Contains(err.Error(), "tui:") || !strings.Contains(err.Error(), "log:") {
		t.Errorf("Validate() = %v, want both sections reported", err)
	}
}
