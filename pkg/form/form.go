package form

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
	"github.com/goliatone/go-formfields/pkg/validation"
)

var (
	// ErrInvalid is wrapped by Submit when at least one field fails
	// validation. The wrapped model.FieldErrors carries the details.
	ErrInvalid = errors.New("form: submission withheld until errors are resolved")
	// ErrUnknownField is returned when an id is not part of the schema.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNotApplicable is returned by Toggle and Attach on fields of another kind.
	ErrNotApplicable = errors.New("form: operation does not apply to field")
)

// Option configures a Form.
type Option func(*Form)

// WithValidator sets the validator. Defaults to validation.New().
func WithValidator(v *validation.Validator) Option {
	return func(f *Form) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithErrors seeds errors reported by the owner, keyed by field id.
func WithErrors(errs model.FieldErrors) Option {
	return func(f *Form) {
		f.owner.Merge(errs)
	}
}

// Form is the state behind one fill-time render. It is not safe for
// concurrent use; one filler edits a form at a time.
type Form struct {
	fields    []model.FieldDefinition
	index     map[string]int
	values    model.Values
	local     model.FieldErrors
	owner     model.FieldErrors
	formLevel []string
	validator *validation.Validator
}

// New builds a Form over fields. Initial values are normalized; values of the
// wrong shape are replaced by the field's empty value and values for unknown
// ids are dropped.
func New(fields []model.FieldDefinition, values model.Values, options ...Option) *Form {
	f := &Form{
		fields:    model.CloneFields(fields),
		index:     make(map[string]int, len(fields)),
		values:    make(model.Values, len(fields)),
		local:     make(model.FieldErrors),
		owner:     make(model.FieldErrors),
		validator: validation.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}

	for i, field := range f.fields {
		f.index[field.ID] = i
		variant := f.variant(field)
		value, err := variant.Normalize(field, values[field.ID])
		if err != nil {
			value = variant.Empty()
		}
		f.values[field.ID] = value
	}
	return f
}

// Fields returns a copy of the schema in render order.
func (f *Form) Fields() []model.FieldDefinition {
	return model.CloneFields(f.fields)
}

// Field returns the definition for id.
func (f *Form) Field(id string) (model.FieldDefinition, bool) {
	idx, ok := f.index[id]
	if !ok {
		return model.FieldDefinition{}, false
	}
	return f.fields[idx].Clone(), true
}

// Variant returns the type variant for id. Unknown ids resolve to text.
func (f *Form) Variant(id string) fieldtype.Variant {
	field, _ := f.Field(id)
	return f.variant(field)
}

// Value returns a copy of the current normalized value for id. A checkbox
// group with nothing selected yields an empty slice, never nil.
func (f *Form) Value(id string) any {
	idx, ok := f.index[id]
	if !ok {
		return nil
	}
	return copyValue(f.values[f.fields[idx].ID])
}

// Values returns a copy of the value map.
func (f *Form) Values() model.Values {
	out := make(model.Values, len(f.values))
	for id, value := range f.values {
		out[id] = copyValue(value)
	}
	return out
}

// Set records a new raw value for id. Errors previously attached to the field
// are cleared; a value of the wrong shape is rejected and leaves the stored
// value unchanged.
func (f *Form) Set(id string, raw any) error {
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	field := f.fields[idx]
	value, err := f.variant(field).Normalize(field, raw)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			verr.FieldID = id
		}
		return fmt.Errorf("form: set %q: %w", id, err)
	}
	f.values[id] = value
	f.clear(id)
	return nil
}

// Toggle flips option membership on a checkbox group, or the state of a
// boolean checkbox when option is empty.
func (f *Form) Toggle(id, option string) error {
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	field := f.fields[idx]
	switch f.variant(field).Capture {
	case fieldtype.CaptureBoolean:
		current, _ := f.values[id].(bool)
		f.values[id] = !current
	case fieldtype.CaptureSubset:
		current, _ := f.values[id].([]string)
		if pos := slices.Index(current, option); pos >= 0 {
			current = slices.Delete(slices.Clone(current), pos, pos+1)
		} else {
			current = append(slices.Clone(current), option)
		}
		f.values[id] = orderLike(field.Options, current)
	default:
		return fmt.Errorf("%w: toggle on %s field %q", ErrNotApplicable, field.Type, id)
	}
	f.clear(id)
	return nil
}

// Attach stores a file handle on a file field.
func (f *Form) Attach(id string, ref model.FileRef) error {
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if f.variant(f.fields[idx]).Capture != fieldtype.CaptureBinary {
		return fmt.Errorf("%w: attach on %s field %q", ErrNotApplicable, f.fields[idx].Type, id)
	}
	f.values[id] = ref
	f.clear(id)
	return nil
}

// MergeErrors adds owner-reported messages keyed by field id.
func (f *Form) MergeErrors(errs model.FieldErrors) {
	for id, messages := range errs {
		if _, ok := f.index[id]; !ok {
			f.formLevel = render.MergeFormErrors(f.formLevel, messages...)
			continue
		}
		for _, message := range messages {
			f.owner.Add(id, message)
		}
	}
}

// MergeErrorPayload maps an owner payload keyed by id, name or path onto the
// fields and merges it. Unmatched messages become form-level errors.
func (f *Form) MergeErrorPayload(payload map[string][]string) {
	mapping := render.MapErrorPayload(f.fields, payload)
	f.owner.Merge(mapping.Fields)
	f.formLevel = render.MergeFormErrors(f.formLevel, mapping.Form...)
}

// Errors returns local and owner messages merged, local first.
func (f *Form) Errors() model.FieldErrors {
	out := f.local.Clone()
	out.Merge(f.owner)
	return out
}

// FormErrors returns messages not tied to a field.
func (f *Form) FormErrors() []string {
	return slices.Clone(f.formLevel)
}

// ValidateField checks a single field and records the outcome.
func (f *Form) ValidateField(id string) *model.ValidationError {
	idx, ok := f.index[id]
	if !ok {
		return nil
	}
	f.local.Clear(id)
	_, verr := f.validator.ValidateField(f.fields[idx], f.values[id])
	if verr != nil {
		f.local.Add(id, verr.Message)
	}
	return verr
}

// Validate checks every field, replacing previously recorded local errors.
func (f *Form) Validate() model.FieldErrors {
	_, errs := f.validator.Validate(f.fields, f.values)
	f.local = errs
	return errs.Clone()
}

// Submit validates and returns the value map. Owner-reported errors block
// the submission until the field is edited. On failure the error wraps
// ErrInvalid and the model.FieldErrors describing each failing field.
func (f *Form) Submit() (model.Values, error) {
	f.Validate()
	if errs := f.Errors(); len(errs.IDs()) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errs)
	}
	return f.Values(), nil
}

// Payload validates and encodes the submission JSON.
func (f *Form) Payload() ([]byte, error) {
	values, err := f.Submit()
	if err != nil {
		return nil, err
	}
	return render.EncodeSubmission(f.fields, values)
}

// Render runs renderer with the form's values and errors filled into opts.
func (f *Form) Render(ctx context.Context, renderer render.Renderer, opts render.RenderOptions) ([]byte, error) {
	if renderer == nil {
		return nil, errors.New("form: renderer is required")
	}
	opts.Values = f.Values()
	opts.Errors = f.Errors()
	opts.FormErrors = render.MergeFormErrors(f.formLevel, opts.FormErrors...)
	return renderer.Render(ctx, f.fields, opts)
}

func (f *Form) clear(id string) {
	f.local.Clear(id)
	f.owner.Clear(id)
}

func (f *Form) variant(field model.FieldDefinition) fieldtype.Variant {
	return f.validator.Registry().For(field)
}

func copyValue(value any) any {
	if list, ok := value.([]string); ok {
		return slices.Clone(list)
	}
	return value
}

// orderLike sorts selected values in option order; values that are not
// options keep their relative order at the end.
func orderLike(options, selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, option := range options {
		if slices.Contains(selected, option) {
			out = append(out, option)
		}
	}
	for _, value := range selected {
		if !slices.Contains(options, value) {
			out = append(out, value)
		}
	}
	return out
}
