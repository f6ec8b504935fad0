package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/form"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/openapi"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/validation"
)

func runRender(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common  commonFlags
		values  string
		errs    string
		action  string
		method  string
		subset  string
	)
	fs := newFlagSet(env, "render")
	common.bind(fs)
	fs.StringVar(&values, "values", "", "prefill values (submission payload JSON)")
	fs.StringVar(&errs, "errors", "", "owner error payload to surface (JSON object of messages)")
	fs.StringVar(&action, "action", "", "form action URL")
	fs.StringVar(&method, "method", "", "form method, POST when empty")
	fs.StringVar(&subset, "fields", "", "comma separated field ids to render")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}

	orch, err := env.orchestrator(ctx, common)
	if err != nil {
		return exitError, err
	}
	req, err := env.request(common)
	if err != nil {
		return exitError, err
	}
	fields, err := orch.Fields(ctx, req)
	if err != nil {
		return exitError, err
	}
	req.Fields = fields
	req.Renderer = "vanilla"
	req.RenderOptions.Action = action
	req.RenderOptions.Method = method
	req.RenderOptions.Subset = render.FieldSubset{IDs: render.ParseTokenList(subset)}
	if req.RenderOptions.Values, err = env.loadValues(ctx, values); err != nil {
		return exitError, err
	}
	mapping, err := env.loadErrors(ctx, errs, fields)
	if err != nil {
		return exitError, err
	}
	req.RenderOptions.Errors = mapping.Fields
	req.RenderOptions.FormErrors = mapping.Form

	output, err := orch.Generate(ctx, req)
	if err != nil {
		return exitError, err
	}
	return exitOK, env.write(common.out, output)
}

func runFill(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common commonFlags
		values string
	)
	fs := newFlagSet(env, "fill")
	common.bind(fs)
	fs.StringVar(&values, "values", "", "values to start from (submission payload JSON)")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}

	orch, err := env.orchestrator(ctx, common)
	if err != nil {
		return exitError, err
	}
	req, err := env.request(common)
	if err != nil {
		return exitError, err
	}
	req.Renderer = "tui"
	if req.RenderOptions.Values, err = env.loadValues(ctx, values); err != nil {
		return exitError, err
	}

	output, err := orch.Generate(ctx, req)
	if err != nil {
		return exitError, err
	}
	return exitOK, env.write(common.out, output)
}

func runPresent(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common commonFlags
		values string
		format string
	)
	fs := newFlagSet(env, "present")
	common.bind(fs)
	fs.StringVar(&values, "values", "", "stored values (submission payload JSON, required)")
	fs.StringVar(&format, "format", "text", "output format: html, text or json")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}
	if strings.TrimSpace(values) == "" {
		return exitError, errors.New("-values is required")
	}

	orch, err := env.orchestrator(ctx, common)
	if err != nil {
		return exitError, err
	}
	req, err := env.request(common)
	if err != nil {
		return exitError, err
	}
	if req.RenderOptions.Values, err = env.loadValues(ctx, values); err != nil {
		return exitError, err
	}

	switch format {
	case "html":
		req.Renderer = "presenter"
	case "text":
		req.Renderer = "presenter-text"
	case "json":
		fields, err := orch.Fields(ctx, req)
		if err != nil {
			return exitError, err
		}
		display, err := env.presenter()
		if err != nil {
			return exitError, err
		}
		output, err := display.JSON(fields, req.RenderOptions.Values)
		if err != nil {
			return exitError, err
		}
		return exitOK, env.write(common.out, output)
	default:
		return exitError, fmt.Errorf("unknown format %q", format)
	}

	output, err := orch.Generate(ctx, req)
	if err != nil {
		return exitError, err
	}
	return exitOK, env.write(common.out, output)
}

// verifyReport is printed when a payload is rejected.
type verifyReport struct {
	Valid  bool              `json:"valid"`
	Fields model.FieldErrors `json:"fields,omitempty"`
	Form   []string          `json:"form,omitempty"`
}

func runVerify(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common  commonFlags
		payload string
		mode    string
	)
	fs := newFlagSet(env, "verify")
	common.bind(fs)
	fs.StringVar(&payload, "payload", "", "submission payload to check (required)")
	fs.StringVar(&mode, "mode", "local", "validation mode: local (fill-time rules) or openapi (exported schema)")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}
	if strings.TrimSpace(payload) == "" {
		return exitError, errors.New("-payload is required")
	}

	orch, err := env.orchestrator(ctx, common)
	if err != nil {
		return exitError, err
	}
	req, err := env.request(common)
	if err != nil {
		return exitError, err
	}
	fields, err := orch.Fields(ctx, req)
	if err != nil {
		return exitError, err
	}

	var report verifyReport
	switch mode {
	case "local":
		values, err := env.loadValues(ctx, payload)
		if err != nil {
			return exitError, err
		}
		validator := validation.New(
			validation.WithLocale(env.cfg.Locale),
			validation.WithFileDefaults(env.cfg.FileDefaults),
		)
		state := form.New(fields, values, form.WithValidator(validator))
		report.Fields = state.Validate()
		report.Form = state.FormErrors()
	case "openapi":
		data, err := env.loader.Load(ctx, loader.SourceFromLocation(payload))
		if err != nil {
			return exitError, err
		}
		err = openapi.Verify(openapi.SubmissionSchema(fields), data)
		var payloadErr *openapi.PayloadError
		switch {
		case errors.As(err, &payloadErr):
			report.Fields = payloadErr.Fields
			report.Form = payloadErr.Form
		case err != nil:
			return exitError, err
		}
	default:
		return exitError, fmt.Errorf("unknown mode %q", mode)
	}

	report.Valid = len(report.Fields) == 0 && len(report.Form) == 0
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return exitError, err
	}
	if err := env.write(common.out, output); err != nil {
		return exitError, err
	}
	if !report.Valid {
		env.logger.Warn().Strs("field_ids", report.Fields.IDs()).Int("form_errors", len(report.Form)).Msg("payload rejected")
		return exitInvalid, nil
	}
	return exitOK, nil
}

func runExport(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common commonFlags
		format string
		title  string
		path   string
		name   string
	)
	fs := newFlagSet(env, "export")
	common.bind(fs)
	fs.StringVar(&format, "format", "json", "document format: json or yaml")
	fs.StringVar(&title, "title", openapi.DefaultTitle, "document title")
	fs.StringVar(&path, "path", openapi.DefaultPath, "submission endpoint path")
	fs.StringVar(&name, "name", openapi.DefaultSchemaName, "component schema name")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}

	orch, err := env.orchestrator(ctx, common)
	if err != nil {
		return exitError, err
	}
	req, err := env.request(common)
	if err != nil {
		return exitError, err
	}
	fields, err := orch.Fields(ctx, req)
	if err != nil {
		return exitError, err
	}

	doc, err := openapi.Document(ctx, fields,
		openapi.WithTitle(title),
		openapi.WithPath(path),
		openapi.WithSchemaName(name),
	)
	if err != nil {
		return exitError, err
	}
	output, err := openapi.Marshal(doc, format)
	if err != nil {
		return exitError, err
	}
	return exitOK, env.write(common.out, output)
}
