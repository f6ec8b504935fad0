package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

// ErrMalformedPayload is returned by Verify when the payload is not a JSON
// object.
var ErrMalformedPayload = errors.New("openapi: malformed payload")

// PayloadError lists the violations found by Verify. Violations tied to a
// property are keyed by field id; the rest land in Form.
type PayloadError struct {
	Fields model.FieldErrors
	Form   []string
}

func (e *PayloadError) Error() string {
	var parts []string
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, message := range e.Fields[id] {
			parts = append(parts, fmt.Sprintf("%s: %s", id, message))
		}
	}
	parts = append(parts, e.Form...)
	return "openapi: payload does not match schema: " + strings.Join(parts, "; ")
}

// Verify checks a submission payload, plain or string-wrapped JSON, against
// a schema built by SubmissionSchema. It returns a *PayloadError listing
// every violation.
func Verify(schema *openapi3.Schema, payload []byte) error {
	if schema == nil {
		return errors.New("openapi: schema is nil")
	}
	values, err := render.DecodeSubmission(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	err = schema.VisitJSON(map[string]any(values), openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	result := &PayloadError{Fields: model.FieldErrors{}}
	for _, violation := range flatten(err) {
		var schemaErr *openapi3.SchemaError
		if !errors.As(violation, &schemaErr) {
			result.Form = append(result.Form, violation.Error())
			continue
		}
		reason := schemaErr.Reason
		if reason == "" {
			reason = schemaErr.Error()
		}
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			result.Fields.Add(pointer[0], reason)
			continue
		}
		result.Form = append(result.Form, reason)
	}
	return result
}

func flatten(err error) []error {
	multi, ok := err.(openapi3.MultiError)
	if !ok {
		return []error{err}
	}
	var out []error
	for _, inner := range multi {
		out = append(out, flatten(inner)...)
	}
	return out
}
