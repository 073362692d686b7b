package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.cuerc, then $XDG_CONFIG_HOME/cue/config.toml (XDG_CONFIG_HOME
// defaults to ~/.config).
// A .env file in the working directory is loaded first; it never overrides
// variables already set.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	loadDotEnv()

	// Start from defaults so booleans left out of the file keep their default.
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadDotEnv loads ./.env if present. A missing or malformed file is ignored.
func loadDotEnv() {
	_ = godotenv.Load()
}

// DefaultPath returns the path config init writes to when no file exists.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cuerc"
	}
	return filepath.Join(home, ".cuerc")
}

// Path returns the config file in use: override if set, else the first
// existing standard location, else DefaultPath.
func Path(override string) string {
	if override != "" {
		return override
	}
	if p := findConfigFile(); p != "" {
		return p
	}
	return DefaultPath()
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".cuerc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "cue", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Spotify
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" && cfg.Spotify.ClientID == "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("CUE_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("CUE_SPOTIFY_DEVICE"); v != "" {
		cfg.Spotify.Device = v
	}
	if v := os.Getenv("CUE_SPOTIFY_TOKEN_PATH"); v != "" {
		cfg.Spotify.TokenPath = v
	}

	// Engine
	if v := os.Getenv("CUE_POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Engine.PollInterval = i
		}
	}
	if v := os.Getenv("CUE_GUARD_DELAY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Engine.GuardDelay = i
		}
	}

	// Mirror
	if v := os.Getenv("CUE_MIRROR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Mirror.Enabled = b
		}
	}
	if v := os.Getenv("CUE_MIRROR_DATABASE"); v != "" {
		cfg.Mirror.Database = v
	}

	// TUI
	if v := os.Getenv("CUE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("CUE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CUE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
