package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if err := c.Mirror.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mirror: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks EngineConfig for errors.
func (c *EngineConfig) Validate() error {
	var errs []error
	if c.PollInterval < 100 {
		errs = append(errs, errors.New("poll_interval_ms must be at least 100"))
	}
	if c.NearEndThreshold < 0 {
		errs = append(errs, errors.New("near_end_threshold_ms must be non-negative"))
	}
	if c.RetryBackoff < 0 {
		errs = append(errs, errors.New("retry_backoff_ms must be non-negative"))
	}
	if c.GuardDelay < 0 {
		errs = append(errs, errors.New("guard_delay_ms must be non-negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must be non-negative"))
	}
	if c.RateBurst < 0 {
		errs = append(errs, errors.New("rate_burst must be non-negative"))
	}
	return errors.Join(errs...)
}

// Validate checks MirrorConfig for errors.
func (c *MirrorConfig) Validate() error {
	if c.Enabled && c.Name == "" {
		return errors.New("name is required when enabled")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
