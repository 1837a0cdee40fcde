// Package config loads the usernotify CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "USERNOTIFY_"

// Configuration represents the usernotify CLI configuration
type Configuration struct {
	AppID           string `koanf:"app_id" json:"app_id" validate:"required"`
	Protocol        string `koanf:"protocol" json:"protocol" validate:"omitempty,scheme"`
	SoundPolicy     string `koanf:"sound_policy" json:"sound_policy" validate:"omitempty,oneof=platform silent"`
	StateDir        string `koanf:"state_dir" json:"state_dir" validate:"required"`
	CategoriesFile  string `koanf:"categories_file" json:"categories_file"`
	LogLevel        string `koanf:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFile         string `koanf:"log_file" json:"log_file"`
	ResponseTimeout int    `koanf:"response_timeout" json:"response_timeout" validate:"min=0,max=86400"` // seconds, 0 waits forever
}

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("scheme", func(fl validator.FieldLevel) bool {
		return schemePattern.MatchString(fl.Field().String())
	})
	return v
}

// GlobalConfigPath returns ~/.usernotify/config.json
func GlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".usernotify", "config.json"), nil
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
//
// app_id is not required here so that commands which never reach the
// notification system work without it. Validate checks it.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}

	if globalPath, err := GlobalConfigPath(); err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := newValidator().StructExcept(cfg, "AppID"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.CategoriesFile = expandHomePath(cfg.CategoriesFile)
	cfg.LogFile = expandHomePath(cfg.LogFile)

	return &cfg, nil
}

// Validate checks every field, including the ones Load leaves optional
func (c *Configuration) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Sound returns the parsed sound policy
func (c *Configuration) Sound() (notify.SoundPolicy, error) {
	return notify.ParseSoundPolicy(c.SoundPolicy)
}

// Timeout returns the response timeout, zero when waiting forever
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.ResponseTimeout) * time.Second
}

// envTransform converts environment variable names to config keys
// Example: USERNOTIFY_APP_ID -> app_id
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
