package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LIVEPAD_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: LIVEPAD_DEBOUNCE_MS -> debounce_ms, etc.
	if err := k.Load(env.Provider("LIVEPAD_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LIVEPAD_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[LogLevel]bool{
	LogDebug: true,
	LogInfo:  true,
	LogWarn:  true,
	LogError: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must be non-negative")
	}
	if c.NoticeMS <= 0 {
		return fmt.Errorf("notice_ms must be positive")
	}
	if c.DetachedNoticeMS <= 0 {
		return fmt.Errorf("detached_notice_ms must be positive")
	}
	if c.ExportName == "" {
		return fmt.Errorf("export_name is required")
	}
	if !strings.HasSuffix(c.ExportName, ".zip") {
		return fmt.Errorf("invalid export_name %q: must end in .zip", c.ExportName)
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
