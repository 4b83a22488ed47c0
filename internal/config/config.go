package config

import "time"

// Config holds runtime settings for the Kasa CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding credentials, notes and preferences.
//   - AutoLockAfter: idle time after which an unlocked vault locks itself;
//     zero disables the idle timer (signals still lock).
//   - NumericPassword: reject non-digit master passwords at the prompt.
//   - MaxFailedAttempts: consecutive failed logins before the first cooldown.
//   - CooldownBase: length of the first cooldown; later ones escalate.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
type Config struct {
	DatabasePath      string
	AutoLockAfter     time.Duration
	NumericPassword   bool
	MaxFailedAttempts int
	CooldownBase      time.Duration
	LogLevel          string
	LogFormat         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "kasa.db"
	c.AutoLockAfter = 5 * time.Minute
	c.NumericPassword = true
	c.MaxFailedAttempts = 5
	c.CooldownBase = 30 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
