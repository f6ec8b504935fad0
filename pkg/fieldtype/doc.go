// Package fieldtype is the single source of truth for field-type semantics.
// Every FieldDefinition resolves to exactly one Kind; the registry maps each
// Kind to its capture shape, whether options apply, its empty value and the
// normalize/validate pair used at fill time. Renderers and the presenter
// switch over Kind rather than inspecting raw type strings, so authoring,
// capture and display can never disagree about a type.
package fieldtype
