package schemasync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

// ErrClosed is returned by operations on a closed Synchronizer.
var ErrClosed = errors.New("schemasync: synchronizer closed")

// Rejection is returned by an Owner that refuses a schema. Errors is keyed by
// field id, field name or a path containing either.
type Rejection struct {
	Errors map[string][]string
}

func (r *Rejection) Error() string {
	keys := make([]string, 0, len(r.Errors))
	for key := range r.Errors {
		keys = append(keys, key)
	}
	return fmt.Sprintf("owner rejected schema (%s)", strings.Join(keys, ", "))
}

// SyncError surfaces an owner rejection through the same field-scoped map used
// for validation. Messages that match no field land in Form.
type SyncError struct {
	Fields model.FieldErrors
	Form   []string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("schemasync: publish schema: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(fields []model.FieldDefinition, err error) *SyncError {
	syncErr := &SyncError{Err: err}
	var rejection *Rejection
	if errors.As(err, &rejection) {
		mapping := render.MapErrorPayload(fields, rejection.Errors)
		syncErr.Fields = mapping.Fields
		syncErr.Form = mapping.Form
		return syncErr
	}
	syncErr.Form = []string{err.Error()}
	return syncErr
}
