package editor

import "github.com/goliatone/go-formfields/pkg/model"

// Patch is a partial update for a field. Nil members are left untouched.
// Options are edited through the dedicated option methods instead.
type Patch struct {
	Label    *string
	Name     *string
	Type     *model.FieldType
	Required *bool
	HelpText *string
}

// Ptr returns a pointer to v, handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Label == nil && p.Name == nil && p.Type == nil && p.Required == nil && p.HelpText == nil
}
