// Package config loads the engine settings shared by the command line tools.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfields/pkg/model"
)

// Default values applied by Load and Default.
const (
	DefaultLocale    = "en"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultOutput    = "json"
)

// Config holds the engine settings.
type Config struct {
	Locale       string                 `json:"locale" yaml:"locale"`
	LogLevel     string                 `json:"log_level" yaml:"log_level"`
	LogFormat    string                 `json:"log_format" yaml:"log_format"`
	SyncDebounce Duration               `json:"sync_debounce" yaml:"sync_debounce"`
	FileDefaults *model.FileConstraints `json:"file_defaults,omitempty" yaml:"file_defaults,omitempty"`
	Output       string                 `json:"output" yaml:"output"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Locale:    DefaultLocale,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Output:    DefaultOutput,
	}
}

// Load reads path as JSON, falling back to YAML, and fills unset keys with
// defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a JSON or YAML config document.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Default()
		if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = DefaultLocale
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = DefaultLogFormat
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = DefaultOutput
	}
}

// Validate reports settings that cannot be honoured.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	switch c.Output {
	case "json", "form", "pretty":
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	if c.SyncDebounce < 0 {
		return fmt.Errorf("sync_debounce must not be negative")
	}
	if c.FileDefaults != nil && c.FileDefaults.MaxSize < 0 {
		return fmt.Errorf("file_defaults.max_size must not be negative")
	}
	return nil
}

// Duration accepts either a Go duration string ("250ms") or a number of
// milliseconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Duration) set(raw any) error {
	switch v := raw.(type) {
	case nil:
		*d = 0
	case string:
		if strings.TrimSpace(v) == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Millisecond)))
	case int:
		*d = Duration(time.Duration(v) * time.Millisecond)
	default:
		return fmt.Errorf("invalid duration %v", raw)
	}
	return nil
}
