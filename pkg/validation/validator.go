package validation

import (
	"errors"
	"strconv"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

// Option configures a Validator.
type Option func(*Validator)

// WithLocale selects the message locale.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		v.locale = locale
	}
}

// WithTranslator overrides message lookup. Keys it cannot resolve fall back
// to the built-in catalog.
func WithTranslator(t render.Translator) Option {
	return func(v *Validator) {
		v.translator = t
	}
}

// WithFileDefaults applies constraints to file fields that carry none.
func WithFileDefaults(constraints *model.FileConstraints) Option {
	return func(v *Validator) {
		v.fileDefaults = constraints.Clone()
	}
}

// WithRegistry swaps the field type registry.
func WithRegistry(registry *fieldtype.Registry) Option {
	return func(v *Validator) {
		if registry != nil {
			v.registry = registry
		}
	}
}

// Validator normalizes and checks values. It holds no per-form state and is
// safe for concurrent use.
type Validator struct {
	registry     *fieldtype.Registry
	locale       string
	translator   render.Translator
	fileDefaults *model.FileConstraints
}

// New builds a Validator.
func New(options ...Option) *Validator {
	v := &Validator{registry: fieldtype.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Registry returns the registry used to resolve variants.
func (v *Validator) Registry() *fieldtype.Registry {
	return v.registry
}

// Effective returns field with default file constraints applied.
func (v *Validator) Effective(field model.FieldDefinition) model.FieldDefinition {
	if field.Type == model.FieldTypeFile && field.File == nil && v.fileDefaults != nil {
		field.File = v.fileDefaults.Clone()
	}
	return field
}

// ValidateField normalizes raw and checks it. The normalized value is
// returned even on failure so callers keep what the filler typed; a value of
// the wrong shape yields the variant's empty value.
func (v *Validator) ValidateField(field model.FieldDefinition, raw any) (any, *model.ValidationError) {
	field = v.Effective(field)
	variant := v.registry.For(field)

	value, err := variant.Normalize(field, raw)
	if err != nil {
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			verr = &model.ValidationError{Code: model.CodeInvalidType}
		}
		verr.FieldID = field.ID
		return variant.Empty(), v.localize(verr)
	}

	if variant.IsEmpty(value) {
		if field.Required {
			return value, v.localize(&model.ValidationError{FieldID: field.ID, Code: model.CodeRequired})
		}
		return value, nil
	}

	if verr := variant.Validate(field, value); verr != nil {
		return value, v.localize(verr)
	}
	return value, nil
}

// Validate checks every field of the schema. Values for ids outside the
// schema are dropped; missing values are treated as empty.
func (v *Validator) Validate(fields []model.FieldDefinition, values model.Values) (model.Values, model.FieldErrors) {
	normalized := make(model.Values, len(fields))
	errs := make(model.FieldErrors)
	for _, field := range fields {
		value, verr := v.ValidateField(field, values[field.ID])
		normalized[field.ID] = value
		if verr != nil {
			errs.Add(field.ID, verr.Message)
		}
	}
	return normalized, errs
}

// Message returns the localized text for a validation error.
func (v *Validator) Message(verr *model.ValidationError) string {
	if verr == nil {
		return ""
	}
	key, args := messageKey(verr)
	return render.Translate(v.translator, v.locale, key, nil, args...)
}

func (v *Validator) localize(verr *model.ValidationError) *model.ValidationError {
	verr.Message = v.Message(verr)
	return verr
}

func messageKey(verr *model.ValidationError) (string, []any) {
	switch verr.Code {
	case model.CodeRequired:
		return render.MsgRequired, nil
	case model.CodeInvalidEmail:
		return render.MsgInvalidEmail, nil
	case model.CodeInvalidTel:
		return render.MsgInvalidTel, nil
	case model.CodeInvalidNumber:
		return render.MsgInvalidNumber, nil
	case model.CodeInvalidDate:
		return render.MsgInvalidDate, nil
	case model.CodeNotAnOption:
		return render.MsgNotAnOption, nil
	case model.CodeFileTooLarge:
		limit, _ := strconv.ParseInt(verr.Params["max"], 10, 64)
		return render.MsgFileTooLarge, []any{fieldtype.FormatSize(limit)}
	case model.CodeFileType:
		return render.MsgFileType, []any{verr.Params["extensions"]}
	default:
		return render.MsgInvalidType, nil
	}
}
