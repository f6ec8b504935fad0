package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/internal/config"
	"github.com/goliatone/go-formfields/pkg/model"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSONAndYAML(t *testing.T) {
	want := config.Config{
		Locale:       "fr",
		LogLevel:     "debug",
		LogFormat:    "json",
		SyncDebounce: config.Duration(250 * time.Millisecond),
		FileDefaults: &model.FileConstraints{MaxSize: 1 << 20, Extensions: []string{".pdf"}},
		Output:       "pretty",
	}

	tests := map[string]string{
		"json": `{"locale":"fr","log_level":"debug","log_format":"json","sync_debounce":"250ms",
			"file_defaults":{"max_size":1048576,"extensions":[".pdf"]},"output":"pretty"}`,
		"yaml": `locale: fr
log_level: debug
log_format: json
sync_debounce: 250
file_defaults:
  max_size: 1048576
  extensions: [.pdf]
output: pretty
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(doc), name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_FillsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("locale: fr-FR\n"), "partial.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Locale != "fr-FR" || cfg.LogLevel != config.DefaultLogLevel || cfg.Output != config.DefaultOutput {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SyncDebounce.Std() != 0 || cfg.FileDefaults != nil {
		t.Fatalf("expected zero debounce and no file defaults, got %+v", cfg)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":      "  ",
		"garbage":    "{locale: [",
		"log level":  `{"log_level":"loud"}`,
		"log format": `{"log_format":"xml"}`,
		"output":     `{"output":"html"}`,
		"debounce":   `{"sync_debounce":"soon"}`,
		"negative":   `{"sync_debounce":"-1s"}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(doc), name); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formfields.yaml")
	if err := os.WriteFile(path, []byte("output: form\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output != "form" {
		t.Fatalf("expected form output, got %q", cfg.Output)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := cfg.Logger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("field_id", "4").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info event should be filtered: %s", out)
	}
	if !strings.Contains(out, `"field_id":"4"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
