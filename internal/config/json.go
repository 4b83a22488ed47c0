package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kasa/internal/flagx"
	"github.com/dmitrijs2005/kasa/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key apart from a zero value.
type JsonConfig struct {
	DatabasePath      *string         `json:"database_path"`
	AutoLockAfter     *timex.Duration `json:"auto_lock_after"`
	NumericPassword   *bool           `json:"numeric_password"`
	MaxFailedAttempts *int            `json:"max_failed_attempts"`
	CooldownBase      *timex.Duration `json:"cooldown_base"`
	LogLevel          *string         `json:"log_level"`
	LogFormat         *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and unmarshal
// errors panic; a broken config file should stop the program before any
// vault file is opened.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.AutoLockAfter != nil {
		cfg.AutoLockAfter = jc.AutoLockAfter.Duration
	}
	if jc.NumericPassword != nil {
		cfg.NumericPassword = *jc.NumericPassword
	}
	if jc.MaxFailedAttempts != nil {
		cfg.MaxFailedAttempts = *jc.MaxFailedAttempts
	}
	if jc.CooldownBase != nil {
		cfg.CooldownBase = jc.CooldownBase.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
