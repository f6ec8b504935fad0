package gotemplate

import (
	"errors"
	"fmt"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formfields/pkg/render/template"
)

var _ template.TemplateRenderer = (*gotemplatepkg.Engine)(nil)

// NewHooked builds a go-template engine from the same options as New. The
// returned engine runs pre and post render hooks registered through
// RegisterPreHook and RegisterPostHook around every template, so callers can
// rewrite view data or wrap output without touching the templates. Pass it to
// a renderer through its WithTemplateRenderer option.
func NewHooked(options ...Option) (*gotemplatepkg.Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	registerDefaultFilters()

	engineOptions := []gotemplatepkg.Option{gotemplatepkg.WithExtension(cfg.extension)}
	if cfg.baseDir != "" {
		engineOptions = append(engineOptions, gotemplatepkg.WithBaseDir(cfg.baseDir))
	}
	if cfg.templates != nil {
		engineOptions = append(engineOptions, gotemplatepkg.WithFS(cfg.templates))
	}
	if len(cfg.templateFn) > 0 {
		engineOptions = append(engineOptions, gotemplatepkg.WithTemplateFunc(cfg.templateFn))
	}
	if len(cfg.globalData) > 0 {
		engineOptions = append(engineOptions, gotemplatepkg.WithGlobalData(cfg.globalData))
	}

	engine, err := gotemplatepkg.NewRenderer(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: configure hooked engine: %w", err)
	}
	return engine, nil
}
