package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/form"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/validation"
)

// Renderer implements render.Renderer for terminal-driven sessions: it walks
// the fields in order, prompts for each one and re-prompts until the answer
// validates.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	resolveFile       FileResolver
	fileDefaults      *model.FileConstraints
	maxAttempts       int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		resolveFile:  statFile,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field and returns the serialized submission.
// Errors supplied in opts are shown next to their field before it is
// prompted, and answering the field clears them.
func (r *Renderer) Render(ctx context.Context, fields []model.FieldDefinition, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	validator := validation.New(
		validation.WithLocale(opts.Locale),
		validation.WithTranslator(opts.Translator),
		validation.WithFileDefaults(r.fileDefaults),
	)
	state := form.New(render.ApplySubset(fields, opts.Subset), opts.Values, form.WithValidator(validator))
	state.MergeErrors(opts.Errors)

	for _, message := range render.MergeFormErrors(opts.FormErrors, state.FormErrors()...) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	for _, field := range state.Fields() {
		if err := r.promptField(ctx, state, validator, field, opts); err != nil {
			return nil, err
		}
	}

	values, err := state.Submit()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(state.Fields(), values, opts)
}

func (r *Renderer) promptField(ctx context.Context, state *form.Form, validator *validation.Validator, field model.FieldDefinition, opts render.RenderOptions) error {
	for _, message := range state.Errors().For(field.ID) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
	}

	variant := state.Variant(field.ID)
	for attempt := 1; ; attempt++ {
		raw, problem, err := r.ask(ctx, state, validator, field, variant, opts)
		if err != nil {
			return err
		}

		if problem == "" {
			if err := state.Set(field.ID, raw); err != nil {
				var verr *model.ValidationError
				if !errors.As(err, &verr) {
					return fmt.Errorf("tui: %w", err)
				}
				problem = validator.Message(verr)
			} else if verr := state.ValidateField(field.ID); verr != nil {
				problem = verr.Message
			} else {
				return nil
			}
		}

		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+problem); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: field %q", ErrTooManyAttempts, field.ID)
		}
	}
}

// ask runs one prompt for field. problem is set instead of err when the answer
// is unusable but the user should simply be asked again.
func (r *Renderer) ask(ctx context.Context, state *form.Form, validator *validation.Validator, field model.FieldDefinition, variant fieldtype.Variant, opts render.RenderOptions) (any, string, error) {
	message := r.theme.PromptPrefix + displayLabel(field)
	help := displayHelp(field)
	current := state.Value(field.ID)

	switch variant.Capture {
	case fieldtype.CaptureSingle:
		options := append([]string{opts.T(render.MsgSelectEmpty)}, choices(field)...)
		selected, _ := current.(string)
		defaultIdx := 0
		if idx := slices.Index(options[1:], selected); idx >= 0 {
			defaultIdx = idx + 1
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         help,
		})
		if err != nil {
			return nil, "", err
		}
		if idx <= 0 || idx >= len(options) {
			return "", "", nil
		}
		return options[idx], "", nil

	case fieldtype.CaptureSubset:
		options := choices(field)
		selected, _ := current.([]string)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: indicesOf(options, selected),
			Help:     help,
		})
		if err != nil {
			return nil, "", err
		}
		return valuesFromIndices(options, indices), "", nil

	case fieldtype.CaptureBoolean:
		checked, _ := current.(bool)
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: checked,
			Help:    help,
		})
		if err != nil {
			return nil, "", err
		}
		return answer, "", nil

	case fieldtype.CaptureBinary:
		ref, _ := current.(model.FileRef)
		path, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: ref.Handle,
			Help:    help,
		})
		if err != nil {
			return nil, "", err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, "", nil
		}
		if !ref.IsZero() && path == ref.Handle {
			return ref, "", nil
		}
		resolved, err := r.resolveFile(path)
		if err != nil {
			return nil, err.Error(), nil
		}
		return resolved, "", nil

	default:
		value, _ := current.(string)
		if variant.Multiline {
			answer, err := r.driver.TextArea(ctx, TextAreaConfig{
				Message: message,
				Default: value,
				Help:    help,
			})
			return answer, "", err
		}
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: value,
			Help:    help,
			Validator: func(input string) error {
				if _, verr := validator.ValidateField(field, input); verr != nil {
					return errors.New(verr.Message)
				}
				return nil
			},
		})
		return answer, "", err
	}
}

func (r *Renderer) serialize(fields []model.FieldDefinition, values model.Values, opts render.RenderOptions) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(fields, values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(fields, values, opts)), nil
	default:
		return render.EncodeSubmission(fields, values)
	}
}

func displayLabel(field model.FieldDefinition) string {
	label := strings.TrimSpace(render.PlainText(field.Label))
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	if field.Required {
		label += " *"
	}
	return label
}

func displayHelp(field model.FieldDefinition) string {
	return strings.TrimSpace(render.PlainText(field.HelpText))
}

func choices(field model.FieldDefinition) []string {
	out := make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		if strings.TrimSpace(option) != "" {
			out = append(out, option)
		}
	}
	return out
}

func valuesFromIndices(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

func statFile(path string) (model.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileRef{}, err
	}
	if info.IsDir() {
		return model.FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	return model.FileRef{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Handle:      path,
	}, nil
}

func flattenForm(fields []model.FieldDefinition, values model.Values) string {
	flattened := url.Values{}
	for _, field := range fields {
		switch v := values[field.ID].(type) {
		case string:
			flattened.Set(field.ID, v)
		case []string:
			for _, item := range v {
				flattened.Add(field.ID, item)
			}
		case bool:
			flattened.Set(field.ID, strconv.FormatBool(v))
		case model.FileRef:
			if v.Handle != "" {
				flattened.Set(field.ID, v.Handle)
			} else {
				flattened.Set(field.ID, v.Name)
			}
		}
	}
	return flattened.Encode()
}

func prettyPrint(fields []model.FieldDefinition, values model.Values, opts render.RenderOptions) string {
	var b strings.Builder
	for _, field := range fields {
		label := strings.TrimSpace(render.PlainText(field.Label))
		if label == "" {
			label = model.DefaultLabeler(field.Name)
		}
		fmt.Fprintf(&b, "%s: %s\n", label, prettyValue(values[field.ID], opts))
	}
	return b.String()
}

func prettyValue(value any, opts render.RenderOptions) string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return opts.T(render.MsgNotProvided)
		}
		return strings.ReplaceAll(v, "\n", "\n  ")
	case []string:
		if len(v) == 0 {
			return opts.T(render.MsgNoSelection)
		}
		return strings.Join(v, ", ")
	case bool:
		if v {
			return opts.T(render.MsgYes)
		}
		return opts.T(render.MsgNo)
	case model.FileRef:
		if v.Size > 0 {
			return fmt.Sprintf("%s (%s)", v.Name, fieldtype.FormatSize(v.Size))
		}
		return v.Name
	default:
		return opts.T(render.MsgNotProvided)
	}
}
