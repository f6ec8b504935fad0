package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfields/internal/loader"
	"github.com/goliatone/go-formfields/pkg/editor"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/schemasync"
	"github.com/goliatone/go-formfields/pkg/validation"
)

// editStep is one scripted mutation. Fields are addressed by id, by name or
// by the ref given to an earlier add step.
type editStep struct {
	Op         string   `json:"op" yaml:"op"`
	Ref        string   `json:"ref" yaml:"ref"`
	ID         string   `json:"id" yaml:"id"`
	Type       string   `json:"type" yaml:"type"`
	Label      *string  `json:"label" yaml:"label"`
	Name       *string  `json:"name" yaml:"name"`
	HelpText   *string  `json:"help_text" yaml:"help_text"`
	Required   *bool    `json:"required" yaml:"required"`
	Options    []string `json:"options" yaml:"options"`
	To         *int     `json:"to" yaml:"to"`
	MaxSize    int64    `json:"max_size" yaml:"max_size"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

func parseEditScript(data []byte) ([]editStep, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("edit script is empty")
	}
	var steps []editStep
	if err := json.Unmarshal(data, &steps); err != nil {
		steps = nil
		if yerr := yaml.Unmarshal(data, &steps); yerr != nil {
			return nil, fmt.Errorf("parse edit script: invalid JSON or YAML")
		}
	}
	return steps, nil
}

// scriptRunner applies edit steps to a store.
type scriptRunner struct {
	store *editor.Store
	refs  map[string]string
}

func (r *scriptRunner) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if id, ok := r.refs[key]; ok {
		return id, nil
	}
	if _, ok := r.store.Field(key); ok {
		return key, nil
	}
	for _, field := range r.store.Fields() {
		if field.Name == key {
			return field.ID, nil
		}
	}
	return "", fmt.Errorf("field %q not found", key)
}

func (r *scriptRunner) apply(steps []editStep) error {
	for idx, step := range steps {
		if err := r.step(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", idx+1, step.Op, err)
		}
	}
	return nil
}

func (r *scriptRunner) step(step editStep) error {
	switch step.Op {
	case "add":
		id, err := r.store.AddField()
		if err != nil {
			return err
		}
		if step.Ref != "" {
			r.refs[step.Ref] = id
		}
		return r.update(id, step)
	case "update":
		id, err := r.resolve(step.ID)
		if err != nil {
			return err
		}
		return r.update(id, step)
	case "remove":
		id, err := r.resolve(step.ID)
		if err != nil {
			return err
		}
		r.store.RemoveField(id)
		return nil
	case "move":
		id, err := r.resolve(step.ID)
		if err != nil {
			return err
		}
		if step.To == nil {
			return errors.New("move requires to")
		}
		if *step.To < 0 || *step.To >= r.store.Len() {
			return fmt.Errorf("position %d out of range", *step.To)
		}
		r.store.Move(id, *step.To)
		return nil
	case "constraints":
		id, err := r.resolve(step.ID)
		if err != nil {
			return err
		}
		if !r.store.SetFileConstraints(id, &model.FileConstraints{MaxSize: step.MaxSize, Extensions: step.Extensions}) {
			return errors.New("constraints apply to file fields only")
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func (r *scriptRunner) update(id string, step editStep) error {
	patch := editor.Patch{
		Label:    step.Label,
		Name:     step.Name,
		HelpText: step.HelpText,
		Required: step.Required,
	}
	if step.Type != "" {
		fieldType := model.FieldType(step.Type)
		if !fieldType.Valid() {
			return fmt.Errorf("unknown field type %q", step.Type)
		}
		patch.Type = &fieldType
	}
	if !patch.Empty() {
		r.store.UpdateField(id, patch)
	}
	if step.Options != nil {
		return r.setOptions(id, step.Options)
	}
	return nil
}

func (r *scriptRunner) setOptions(id string, options []string) error {
	field, _ := r.store.Field(id)
	if !field.Type.IsChoice() {
		return fmt.Errorf("field %q of type %s takes no options", id, field.Type)
	}
	for idx := len(field.Options) - 1; idx >= 0; idx-- {
		r.store.RemoveOption(id, idx)
	}
	for idx, option := range options {
		r.store.AddOption(id)
		r.store.UpdateOption(id, idx, option)
	}
	return nil
}

// recordingOwner keeps the last schema the synchronizer emitted.
type recordingOwner struct {
	mu        sync.Mutex
	last      []model.WireField
	emissions int
}

func (o *recordingOwner) PublishSchema(_ context.Context, fields []model.WireField) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.last = fields
	o.emissions++
	return nil
}

func runEdit(ctx context.Context, env *environment, args []string) (int, error) {
	var (
		common commonFlags
		script string
		strict bool
	)
	fs := newFlagSet(env, "edit")
	common.bind(fs)
	fs.StringVar(&script, "script", "", "edit script, a JSON or YAML list of steps (required)")
	fs.BoolVar(&strict, "strict", false, "exit non-zero when the edited schema has lint issues")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if err := env.setup(common); err != nil {
		return exitError, err
	}
	if strings.TrimSpace(script) == "" {
		return exitError, errors.New("-script is required")
	}

	var fields []model.FieldDefinition
	if strings.TrimSpace(common.schema) != "" {
		orch, err := env.orchestrator(ctx, common)
		if err != nil {
			return exitError, err
		}
		req, err := env.request(common)
		if err != nil {
			return exitError, err
		}
		if fields, err = orch.Fields(ctx, req); err != nil {
			return exitError, err
		}
	}

	data, err := env.loader.Load(ctx, loader.SourceFromLocation(script))
	if err != nil {
		return exitError, err
	}
	steps, err := parseEditScript(data)
	if err != nil {
		return exitError, err
	}

	store := editor.NewStore(editor.WithFields(fields))
	owner := &recordingOwner{}
	synchronizer, err := schemasync.New(ctx, store, owner,
		schemasync.WithLogger(env.logger),
		schemasync.WithDebounce(env.cfg.SyncDebounce.Std()),
	)
	if err != nil {
		return exitError, err
	}
	defer synchronizer.Close()

	runner := &scriptRunner{store: store, refs: map[string]string{}}
	if err := runner.apply(steps); err != nil {
		return exitError, err
	}
	if err := synchronizer.Flush(); err != nil {
		return exitError, err
	}
	if syncErr := synchronizer.LastError(); syncErr != nil {
		return exitError, syncErr
	}

	env.logger.Info().Int("steps", len(steps)).Int("emissions", owner.emissions).Msg("schema edited")
	lint := validation.ValidateSchema(store.Fields())
	for _, issue := range lint.Issues {
		env.logger.Warn().Str("field_id", issue.Field).Str("path", issue.Path).Msg(issue.Message)
	}

	output, err := json.MarshalIndent(model.ToWireSchema(store.Fields()), "", "  ")
	if err != nil {
		return exitError, err
	}
	if err := env.write(common.out, output); err != nil {
		return exitError, err
	}
	if strict && !lint.Valid {
		return exitInvalid, nil
	}
	return exitOK, nil
}
