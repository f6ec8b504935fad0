package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/internal/config"
	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/orchestrator"
	"github.com/goliatone/go-formfields/pkg/presenter"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/renderers/tui"
	"github.com/goliatone/go-formfields/pkg/renderers/vanilla"
)

type environment struct {
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
	logger zerolog.Logger
	loader *loader.Loader
}

func newEnvironment(stdout, stderr io.Writer) *environment {
	return &environment{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		logger: zerolog.Nop(),
	}
}

// commonFlags are shared by every command.
type commonFlags struct {
	config string
	schema string
	locale string
	preset string
	out    string
}

func (c *commonFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "config file (JSON or YAML)")
	fs.StringVar(&c.schema, "schema", "", "schema document path or URL (required)")
	fs.StringVar(&c.locale, "locale", "", "locale override, defaults to the config locale")
	fs.StringVar(&c.preset, "preset", "", "preset document applied to the schema before use")
	fs.StringVar(&c.out, "out", "", "output file, stdout when empty")
}

func newFlagSet(env *environment, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

// setup loads the config, builds the logger and loader and applies the
// locale override.
func (env *environment) setup(common commonFlags) error {
	cfg, err := config.Load(common.config)
	if err != nil {
		return err
	}
	if locale := strings.TrimSpace(common.locale); locale != "" {
		cfg.Locale = locale
	}
	env.cfg = cfg
	env.logger = cfg.Logger(env.stderr).With().Str("component", "formfields-cli").Logger()
	env.loader = loader.New(loader.WithHTTP(true))
	return nil
}

// registry holds every renderer the CLI can dispatch to.
func (env *environment) registry() (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithFileDefaults(env.cfg.FileDefaults))
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(env.cfg.Output)),
		tui.WithFileDefaults(env.cfg.FileDefaults),
	)
	if err != nil {
		return nil, err
	}
	display, err := env.presenter()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, terminal, display.Renderer(), display.TextRenderer())
}

func (env *environment) presenter() (*presenter.Presenter, error) {
	return presenter.New(presenter.WithLocale(env.cfg.Locale))
}

func (env *environment) orchestrator(ctx context.Context, common commonFlags) (*orchestrator.Orchestrator, error) {
	registry, err := env.registry()
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{
		orchestrator.WithLoader(env.loader),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(env.logger),
	}
	if common.preset != "" {
		data, err := env.loader.Load(ctx, loader.SourceFromLocation(common.preset))
		if err != nil {
			return nil, err
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformers(preset))
	}
	return orchestrator.New(options...), nil
}

func (env *environment) request(common commonFlags) (orchestrator.Request, error) {
	if strings.TrimSpace(common.schema) == "" {
		return orchestrator.Request{}, errors.New("-schema is required")
	}
	return orchestrator.Request{
		Source: loader.SourceFromLocation(common.schema),
		RenderOptions: render.RenderOptions{
			Locale: env.cfg.Locale,
		},
	}, nil
}

// loadValues reads a submission payload (plain or string-wrapped JSON).
func (env *environment) loadValues(ctx context.Context, location string) (model.Values, error) {
	if strings.TrimSpace(location) == "" {
		return nil, nil
	}
	data, err := env.loader.Load(ctx, loader.SourceFromLocation(location))
	if err != nil {
		return nil, err
	}
	values, err := render.DecodeSubmission(data)
	if err != nil {
		return nil, fmt.Errorf("values %s: %w", location, err)
	}
	return values, nil
}

// loadErrors reads an owner error payload and maps it onto field ids.
func (env *environment) loadErrors(ctx context.Context, location string, fields []model.FieldDefinition) (render.ErrorMapping, error) {
	if strings.TrimSpace(location) == "" {
		return render.ErrorMapping{}, nil
	}
	data, err := env.loader.Load(ctx, loader.SourceFromLocation(location))
	if err != nil {
		return render.ErrorMapping{}, err
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return render.ErrorMapping{}, fmt.Errorf("errors %s: %w", location, err)
	}
	return render.MapErrorPayload(fields, payload), nil
}

func (env *environment) write(out string, data []byte) error {
	if out == "" {
		if _, err := env.stdout.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, err := io.WriteString(env.stdout, "\n")
			return err
		}
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	env.logger.Info().Str("path", out).Int("bytes", len(data)).Msg("output written")
	return nil
}
