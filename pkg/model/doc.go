// Package model defines the field schema consumed by the editor, the fill-time
// renderers and the read-only presenter. A schema is an ordered slice of
// FieldDefinition values; captured values live in a Values map keyed by the
// field id. The JSON boundary shapes exchanged with the owning application
// (`field_name`, `field_label`, `field_type`, ...) are modelled by WireField and
// converted with DecodeSchema/EncodeSchema. Malformed inbound entries are
// skipped and reported as SchemaError values instead of aborting the decode.
package model
