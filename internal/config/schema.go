package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify" json:"spotify"`
	Engine  EngineConfig  `toml:"engine" json:"engine"`
	Mirror  MirrorConfig  `toml:"mirror" json:"mirror"`
	TUI     TUIConfig     `toml:"tui" json:"tui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID  string `toml:"client_id" json:"client_id"`
	Device    string `toml:"device" json:"device"`
	TokenPath string `toml:"token_path" json:"token_path,omitempty"`
}

// EngineConfig holds queue enforcement timing. Durations are milliseconds.
type EngineConfig struct {
	PollInterval     int     `toml:"poll_interval_ms" json:"poll_interval_ms"`
	NearEndThreshold int     `toml:"near_end_threshold_ms" json:"near_end_threshold_ms"`
	RetryBackoff     int     `toml:"retry_backoff_ms" json:"retry_backoff_ms"`
	GuardDelay       int     `toml:"guard_delay_ms" json:"guard_delay_ms"`
	RateLimit        float64 `toml:"rate_limit" json:"rate_limit"`
	RateBurst        int     `toml:"rate_burst" json:"rate_burst"`
	ImportQueue      bool    `toml:"import_queue" json:"import_queue"`
}

// PollIntervalDuration returns the poll interval.
func (c EngineConfig) PollIntervalDuration() time.Duration {
	return ms(c.PollInterval)
}

// NearEndThresholdDuration returns the near-end threshold.
func (c EngineConfig) NearEndThresholdDuration() time.Duration {
	return ms(c.NearEndThreshold)
}

// RetryBackoffDuration returns the retry backoff.
func (c EngineConfig) RetryBackoffDuration() time.Duration {
	return ms(c.RetryBackoff)
}

// GuardDelayDuration returns the guard delay.
func (c EngineConfig) GuardDelayDuration() time.Duration {
	return ms(c.GuardDelay)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// MirrorConfig holds mirror playlist settings.
type MirrorConfig struct {
	Enabled  bool   `toml:"enabled" json:"enabled"`
	Name     string `toml:"name" json:"name"`
	Database string `toml:"database" json:"database,omitempty"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file,omitempty"`
}
