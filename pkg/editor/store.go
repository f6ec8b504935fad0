package editor

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-formfields/pkg/model"
)

// DefaultLabel is assigned to freshly added fields.
const DefaultLabel = "New field"

// Listener receives a snapshot of the schema after each mutation.
type Listener func(fields []model.FieldDefinition)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the field id generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the clock used to derive default field names.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithDefaultLabel overrides the label given to new fields.
func WithDefaultLabel(label string) Option {
	return func(s *Store) {
		if label != "" {
			s.defaultLabel = label
		}
	}
}

// WithFields seeds the store with an initial schema.
func WithFields(fields []model.FieldDefinition) Option {
	return func(s *Store) {
		s.fields = model.CloneFields(fields)
	}
}

// Store is the schema editing session: the local field buffer and the
// currently expanded field.
type Store struct {
	mu        sync.Mutex
	fields    []model.FieldDefinition
	expanded  string
	listeners map[int]Listener
	nextToken int
	// retired holds ids of removed fields; ids are never handed out twice.
	retired map[string]struct{}

	newID        func() (string, error)
	now          func() time.Time
	defaultLabel string
}

// NewStore constructs an empty store.
func NewStore(options ...Option) *Store {
	s := &Store{
		fields:       []model.FieldDefinition{},
		listeners:    make(map[int]Listener),
		retired:      make(map[string]struct{}),
		newID:        model.NewFieldID,
		now:          time.Now,
		defaultLabel: DefaultLabel,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Subscribe registers a listener and returns a function removing it.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, token)
		s.mu.Unlock()
	}
}

// Fields returns a copy of the current schema.
func (s *Store) Fields() []model.FieldDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneFields(s.fields)
}

// Len reports the number of fields.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fields)
}

// Field returns a copy of the field with the given id.
func (s *Store) Field(id string) (model.FieldDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.fields[idx].Clone(), true
	}
	return model.FieldDefinition{}, false
}

// Index returns the list position of id, or -1.
func (s *Store) Index(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id)
}

// Expanded returns the id of the expanded field, or "".
func (s *Store) Expanded() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded
}

// Expand marks id as the expanded field. Unknown ids are ignored.
func (s *Store) Expand(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.expanded = id
	return true
}

// Collapse clears the expanded pointer.
func (s *Store) Collapse() {
	s.mu.Lock()
	s.expanded = ""
	s.mu.Unlock()
}

// AddField appends a field with a generated id, a default name and label and
// order equal to the current length. The new field becomes the expanded one.
func (s *Store) AddField() (string, error) {
	s.mu.Lock()

	id, err := s.generateIDLocked()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	base := "field_" + strconv.FormatInt(s.now().UnixMilli(), 36)
	name := uniqueName(SanitizeName(base), func(candidate string) bool {
		return s.nameTakenLocked(candidate, "")
	})

	s.fields = append(s.fields, model.FieldDefinition{
		ID:      id,
		Name:    name,
		Label:   s.defaultLabel,
		Type:    model.FieldTypeText,
		Options: []string{},
		Order:   len(s.fields),
	})
	s.expanded = id

	s.commitLocked()
	return id, nil
}

// RemoveField deletes the field. Removing an unknown id is a no-op. The
// remaining order values are left untouched until the next reorder.
func (s *Store) RemoveField(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.fields = slices.Delete(s.fields, idx, idx+1)
	s.retired[id] = struct{}{}
	if s.expanded == id {
		s.expanded = ""
	}
	s.commitLocked()
	return true
}

// UpdateField merges patch into the field. Names are sanitised and made
// unique; switching to a choice type seeds one empty option when none exist
// and switching away clears the options.
func (s *Store) UpdateField(id string, patch Patch) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || patch.Empty() {
		s.mu.Unlock()
		return false
	}

	field := s.fields[idx]
	if patch.Label != nil {
		field.Label = *patch.Label
	}
	if patch.Name != nil {
		field.Name = uniqueName(SanitizeName(*patch.Name), func(candidate string) bool {
			return s.nameTakenLocked(candidate, id)
		})
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.HelpText != nil {
		field.HelpText = *patch.HelpText
	}
	if patch.Type != nil && *patch.Type != field.Type && patch.Type.Valid() {
		next := *patch.Type
		switch {
		case next.IsChoice() && len(field.Options) == 0:
			field.Options = []string{""}
		case !next.IsChoice():
			field.Options = []string{}
		}
		if next != model.FieldTypeFile {
			field.File = nil
		}
		field.Type = next
	}

	s.fields[idx] = field
	s.commitLocked()
	return true
}

// SetFileConstraints replaces the constraints of a file field.
func (s *Store) SetFileConstraints(id string, constraints *model.FileConstraints) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || s.fields[idx].Type != model.FieldTypeFile {
		s.mu.Unlock()
		return false
	}
	s.fields[idx].File = constraints.Clone()
	s.commitLocked()
	return true
}

// Reorder moves the entry at source to destination and renumbers every
// order to its new list index in the same transition. Equal or out of range
// indices are a no-op.
func (s *Store) Reorder(source, destination int) bool {
	s.mu.Lock()
	n := len(s.fields)
	if source == destination || source < 0 || source >= n || destination < 0 || destination >= n {
		s.mu.Unlock()
		return false
	}

	moved := s.fields[source]
	next := slices.Delete(slices.Clone(s.fields), source, source+1)
	next = slices.Insert(next, destination, moved)
	for i := range next {
		next[i].Order = i
	}
	s.fields = next

	s.commitLocked()
	return true
}

// Move reorders the field identified by id to index.
func (s *Store) Move(id string, index int) bool {
	return s.Reorder(s.Index(id), index)
}

// AddOption appends an empty option to a choice field.
func (s *Store) AddOption(id string) bool {
	return s.editOptions(id, func(options []string) ([]string, bool) {
		return append(options, ""), true
	})
}

// UpdateOption replaces the option at index.
func (s *Store) UpdateOption(id string, index int, value string) bool {
	return s.editOptions(id, func(options []string) ([]string, bool) {
		if index < 0 || index >= len(options) {
			return options, false
		}
		options[index] = value
		return options, true
	})
}

// RemoveOption deletes the option at index.
func (s *Store) RemoveOption(id string, index int) bool {
	return s.editOptions(id, func(options []string) ([]string, bool) {
		if index < 0 || index >= len(options) {
			return options, false
		}
		return slices.Delete(options, index, index+1), true
	})
}

// Replace swaps the whole buffer for fields, keeping the expanded pointer
// when the expanded id still exists.
func (s *Store) Replace(fields []model.FieldDefinition) {
	s.mu.Lock()
	s.fields = model.CloneFields(fields)
	if s.expanded != "" && s.indexLocked(s.expanded) < 0 {
		s.expanded = ""
	}
	s.commitLocked()
}

func (s *Store) editOptions(id string, fn func([]string) ([]string, bool)) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || !s.fields[idx].Type.IsChoice() {
		s.mu.Unlock()
		return false
	}
	options, changed := fn(slices.Clone(s.fields[idx].Options))
	if !changed {
		s.mu.Unlock()
		return false
	}
	if options == nil {
		options = []string{}
	}
	s.fields[idx].Options = options
	s.commitLocked()
	return true
}

// commitLocked releases the lock and notifies listeners with one snapshot.
func (s *Store) commitLocked() {
	snapshot := model.CloneFields(s.fields)
	listeners := make([]Listener, 0, len(s.listeners))
	tokens := make([]int, 0, len(s.listeners))
	for token := range s.listeners {
		tokens = append(tokens, token)
	}
	slices.Sort(tokens)
	for _, token := range tokens {
		listeners = append(listeners, s.listeners[token])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(model.CloneFields(snapshot))
	}
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, field := range s.fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nameTakenLocked(name, except string) bool {
	for _, field := range s.fields {
		if field.ID != except && field.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) generateIDLocked() (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("editor: add field: %w", err)
		}
		if _, used := s.retired[id]; used {
			continue
		}
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("editor: add field: could not generate a unique id")
}
