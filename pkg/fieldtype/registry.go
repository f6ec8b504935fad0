package fieldtype

import (
	"github.com/goliatone/go-formfields/pkg/model"
)

// Kind is the resolved variant of a field. Checkbox fields split into a
// subset-of-options group and a boolean toggle depending on their options.
type Kind string

const (
	KindText          Kind = "text"
	KindTextarea      Kind = "textarea"
	KindNumber        Kind = "number"
	KindEmail         Kind = "email"
	KindTel           Kind = "tel"
	KindDate          Kind = "date"
	KindSelect        Kind = "select"
	KindRadio         Kind = "radio"
	KindCheckboxGroup Kind = "checkbox-group"
	KindToggle        Kind = "toggle"
	KindFile          Kind = "file"
)

// Capture describes the shape of a captured value.
type Capture string

const (
	// CaptureScalar stores a single string.
	CaptureScalar Capture = "scalar"
	// CaptureSingle stores one string picked from the options; "" is unselected.
	CaptureSingle Capture = "single"
	// CaptureSubset stores a []string subset of the options.
	CaptureSubset Capture = "subset"
	// CaptureBoolean stores a bool.
	CaptureBoolean Capture = "boolean"
	// CaptureBinary stores a model.FileRef.
	CaptureBinary Capture = "binary"
)

// Variant bundles the semantics of one Kind.
type Variant struct {
	Kind    Kind
	Type    model.FieldType
	Capture Capture
	// Options reports whether the options list is meaningful for the kind.
	Options bool
	// Multiline marks scalar kinds whose line breaks are significant.
	Multiline bool

	normalize func(field model.FieldDefinition, raw any) (any, error)
	validate  func(field model.FieldDefinition, value any) *model.ValidationError
}

// Empty returns a fresh empty value for the variant.
func (v Variant) Empty() any {
	switch v.Capture {
	case CaptureSubset:
		return []string{}
	case CaptureBoolean:
		return false
	case CaptureBinary:
		return nil
	default:
		return ""
	}
}

// Normalize coerces a raw value (typically decoded from JSON) into the
// canonical shape for the variant. nil yields the empty value.
func (v Variant) Normalize(field model.FieldDefinition, raw any) (any, error) {
	if raw == nil {
		return v.Empty(), nil
	}
	return v.normalize(field, raw)
}

// IsEmpty reports whether value counts as "not provided" for the variant.
// A boolean toggle is empty unless it is explicitly true.
func (v Variant) IsEmpty(value any) bool {
	switch v.Capture {
	case CaptureSubset:
		list, _ := value.([]string)
		return len(list) == 0
	case CaptureBoolean:
		b, _ := value.(bool)
		return !b
	case CaptureBinary:
		switch ref := value.(type) {
		case model.FileRef:
			return ref.IsZero()
		case *model.FileRef:
			return ref == nil || ref.IsZero()
		default:
			return true
		}
	default:
		s, _ := value.(string)
		return isBlank(s)
	}
}

// Validate runs the variant's format checks on a normalized value. Empty
// values always pass; required-ness is enforced by the caller.
func (v Variant) Validate(field model.FieldDefinition, value any) *model.ValidationError {
	if v.IsEmpty(value) || v.validate == nil {
		return nil
	}
	verr := v.validate(field, value)
	if verr != nil && verr.FieldID == "" {
		verr.FieldID = field.ID
	}
	return verr
}

// Registry is the closed table of variants. It has no registration API:
// adding a kind means adding it here and to every renderer.
type Registry struct {
	variants map[Kind]Variant
}

var defaultRegistry = newRegistry()

// Default returns the shared registry.
func Default() *Registry {
	return defaultRegistry
}

func newRegistry() *Registry {
	variants := []Variant{
		{Kind: KindText, Type: model.FieldTypeText, Capture: CaptureScalar, normalize: normalizeScalar},
		{Kind: KindTextarea, Type: model.FieldTypeTextarea, Capture: CaptureScalar, Multiline: true, normalize: normalizeScalar},
		{Kind: KindNumber, Type: model.FieldTypeNumber, Capture: CaptureScalar, normalize: normalizeScalar, validate: validateNumber},
		{Kind: KindEmail, Type: model.FieldTypeEmail, Capture: CaptureScalar, normalize: normalizeScalar, validate: validateEmail},
		{Kind: KindTel, Type: model.FieldTypeTel, Capture: CaptureScalar, normalize: normalizeScalar, validate: validateTel},
		{Kind: KindDate, Type: model.FieldTypeDate, Capture: CaptureScalar, normalize: normalizeScalar, validate: validateDate},
		{Kind: KindSelect, Type: model.FieldTypeSelect, Capture: CaptureSingle, Options: true, normalize: normalizeSingle, validate: validateSingle},
		{Kind: KindRadio, Type: model.FieldTypeRadio, Capture: CaptureSingle, Options: true, normalize: normalizeSingle, validate: validateSingle},
		{Kind: KindCheckboxGroup, Type: model.FieldTypeCheckbox, Capture: CaptureSubset, Options: true, normalize: normalizeSubset, validate: validateSubset},
		{Kind: KindToggle, Type: model.FieldTypeCheckbox, Capture: CaptureBoolean, normalize: normalizeBoolean},
		{Kind: KindFile, Type: model.FieldTypeFile, Capture: CaptureBinary, normalize: normalizeFile, validate: validateFile},
	}
	reg := &Registry{variants: make(map[Kind]Variant, len(variants))}
	for _, variant := range variants {
		reg.variants[variant.Kind] = variant
	}
	return reg
}

// Lookup returns the variant registered for kind.
func (r *Registry) Lookup(kind Kind) (Variant, bool) {
	if r == nil {
		return Variant{}, false
	}
	variant, ok := r.variants[kind]
	return variant, ok
}

// For resolves the variant of a field. Unknown types fall back to text so a
// stray schema entry still renders as a plain input.
func (r *Registry) For(field model.FieldDefinition) Variant {
	variant, ok := r.Lookup(KindOf(field))
	if !ok {
		variant, _ = r.Lookup(KindText)
	}
	return variant
}

// Kinds lists every registered kind in authoring order.
func (r *Registry) Kinds() []Kind {
	return []Kind{
		KindText, KindTextarea, KindNumber, KindEmail, KindTel, KindDate,
		KindSelect, KindRadio, KindCheckboxGroup, KindToggle, KindFile,
	}
}

// KindOf maps a field definition to its variant kind.
func KindOf(field model.FieldDefinition) Kind {
	switch field.Type {
	case model.FieldTypeTextarea:
		return KindTextarea
	case model.FieldTypeNumber:
		return KindNumber
	case model.FieldTypeEmail:
		return KindEmail
	case model.FieldTypeTel:
		return KindTel
	case model.FieldTypeDate:
		return KindDate
	case model.FieldTypeSelect:
		return KindSelect
	case model.FieldTypeRadio:
		return KindRadio
	case model.FieldTypeCheckbox:
		if len(field.Options) > 0 {
			return KindCheckboxGroup
		}
		return KindToggle
	case model.FieldTypeFile:
		return KindFile
	default:
		return KindText
	}
}

// For resolves a field against the default registry.
func For(field model.FieldDefinition) Variant {
	return defaultRegistry.For(field)
}
