package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PollInterval:     500,
			NearEndThreshold: 1000,
			RetryBackoff:     500,
			GuardDelay:       2000,
			RateLimit:        10,
			RateBurst:        5,
			ImportQueue:      true,
		},
		Mirror: MirrorConfig{
			Enabled: true,
			Name:    "cue smart queue",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Engine
	if c.Engine.PollInterval == 0 {
		c.Engine.PollInterval = d.Engine.PollInterval
	}
	if c.Engine.NearEndThreshold == 0 {
		c.Engine.NearEndThreshold = d.Engine.NearEndThreshold
	}
	if c.Engine.RetryBackoff == 0 {
		c.Engine.RetryBackoff = d.Engine.RetryBackoff
	}
	if c.Engine.RateBurst == 0 {
		c.Engine.RateBurst = d.Engine.RateBurst
	}

	// Mirror
	if c.Mirror.Name == "" {
		c.Mirror.Name = d.Mirror.Name
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
