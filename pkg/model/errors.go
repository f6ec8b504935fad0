package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingAttribute marks an inbound entry lacking a required attribute.
	ErrMissingAttribute = errors.New("model: missing required attribute")
	// ErrUnknownType marks an inbound entry whose field_type is not supported.
	ErrUnknownType = errors.New("model: unknown field type")
	// ErrDuplicateID marks an inbound entry reusing an id seen earlier.
	ErrDuplicateID = errors.New("model: duplicate field id")
)

// SchemaError describes one malformed inbound schema entry. Decoding skips
// the entry and keeps going.
type SchemaError struct {
	Index     int
	ID        string
	Attribute string
	Err       error
}

func (e SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("model: schema entry ")
	fmt.Fprintf(&b, "%d", e.Index)
	if e.ID != "" {
		fmt.Fprintf(&b, " (id %q)", e.ID)
	}
	if e.Attribute != "" {
		fmt.Fprintf(&b, " attribute %q", e.Attribute)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "model: "))
	}
	return b.String()
}

func (e SchemaError) Unwrap() error {
	return e.Err
}

// Code classifies a validation failure so messages can be localized.
type Code string

const (
	CodeRequired      Code = "required"
	CodeInvalidType   Code = "invalid_type"
	CodeInvalidEmail  Code = "invalid_email"
	CodeInvalidTel    Code = "invalid_tel"
	CodeInvalidNumber Code = "invalid_number"
	CodeInvalidDate   Code = "invalid_date"
	CodeNotAnOption   Code = "not_an_option"
	CodeFileTooLarge  Code = "file_too_large"
	CodeFileType      Code = "file_type"
)

// ValidationError is a field-scoped fill-time failure.
type ValidationError struct {
	FieldID string
	Code    Code
	Message string
	// Params carries values interpolated into localized messages.
	Params map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// FieldErrors maps field ids to human-readable messages. It is the single
// channel used for local validation, owner rejections and persistence errors.
type FieldErrors map[string][]string

// Add appends a message for id, dropping blanks and duplicates.
func (e FieldErrors) Add(id, message string) {
	message = strings.TrimSpace(message)
	if e == nil || id == "" || message == "" {
		return
	}
	for _, existing := range e[id] {
		if existing == message {
			return
		}
	}
	e[id] = append(e[id], message)
}

// Merge copies every message from other into e.
func (e FieldErrors) Merge(other FieldErrors) {
	for id, messages := range other {
		for _, message := range messages {
			e.Add(id, message)
		}
	}
}

// For returns the messages attached to id.
func (e FieldErrors) For(id string) []string {
	if e == nil {
		return nil
	}
	return e[id]
}

// Has reports whether id has at least one message.
func (e FieldErrors) Has(id string) bool {
	return len(e.For(id)) > 0
}

// Clear removes every message for id.
func (e FieldErrors) Clear(id string) {
	delete(e, id)
}

// Clone returns a deep copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for id, messages := range e {
		out[id] = append([]string(nil), messages...)
	}
	return out
}

// IDs returns the ids carrying errors, sorted.
func (e FieldErrors) IDs() []string {
	ids := make([]string, 0, len(e))
	for id, messages := range e {
		if len(messages) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (e FieldErrors) Error() string {
	ids := e.IDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, strings.Join(e[id], "; ")))
	}
	return "field errors: " + strings.Join(parts, ", ")
}
