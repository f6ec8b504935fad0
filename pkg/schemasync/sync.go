package schemasync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/pkg/editor"
	"github.com/goliatone/go-formfields/pkg/model"
)

// Owner persists schemas emitted by the editor. Returning a *Rejection maps
// the refusal onto fields; any other error becomes a form-level message.
type Owner interface {
	PublishSchema(ctx context.Context, fields []model.WireField) error
}

// OwnerFunc adapts a function into an Owner.
type OwnerFunc func(ctx context.Context, fields []model.WireField) error

func (fn OwnerFunc) PublishSchema(ctx context.Context, fields []model.WireField) error {
	return fn(ctx, fields)
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger.With().Str("component", "schemasync").Logger()
	}
}

// WithDebounce coalesces local edits made within d into one emission.
// Zero emits on every net change.
func WithDebounce(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithErrorHandler is called after every failed emission.
func WithErrorHandler(fn func(*SyncError)) Option {
	return func(s *Synchronizer) {
		s.onError = fn
	}
}

// Synchronizer bridges an editor.Store and its Owner.
type Synchronizer struct {
	ctx      context.Context
	store    *editor.Store
	owner    Owner
	logger   zerolog.Logger
	debounce time.Duration
	onError  func(*SyncError)

	mu          sync.Mutex
	inbound     []model.FieldDefinition
	hasInbound  bool
	outbound    []model.FieldDefinition
	pending     []model.FieldDefinition
	timer       *time.Timer
	lastErr     *SyncError
	closed      bool
	unsubscribe func()
}

// New subscribes to store and starts forwarding net changes to owner. The
// store's current contents count as already emitted.
func New(ctx context.Context, store *editor.Store, owner Owner, options ...Option) (*Synchronizer, error) {
	if store == nil {
		return nil, errors.New("schemasync: store is required")
	}
	if owner == nil {
		return nil, errors.New("schemasync: owner is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Synchronizer{
		ctx:    ctx,
		store:  store,
		owner:  owner,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	s.outbound = store.Fields()
	s.unsubscribe = store.Subscribe(s.onChange)
	return s, nil
}

// Receive delivers a schema from the owner. The buffer is replaced only when
// fields differ from the last adopted schema. A delivery equal to the last
// emission is an acknowledgement: it updates the inbound snapshot and leaves
// the buffer alone so newer local edits survive. Reports whether the buffer
// was replaced.
func (s *Synchronizer) Receive(fields []model.FieldDefinition) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.hasInbound && equalSchemas(s.inbound, fields) {
		s.mu.Unlock()
		s.logger.Debug().Int("fields", len(fields)).Msg("inbound schema unchanged")
		return false
	}

	s.inbound = model.CloneFields(fields)
	s.hasInbound = true
	if equalSchemas(s.outbound, fields) {
		s.mu.Unlock()
		s.logger.Debug().Int("fields", len(fields)).Msg("inbound schema acknowledges last emission")
		return false
	}

	s.outbound = model.CloneFields(fields)
	s.pending = nil
	s.stopTimerLocked()
	s.mu.Unlock()

	s.logger.Info().Int("fields", len(fields)).Msg("inbound schema adopted")
	s.store.Replace(fields)
	return true
}

// ReceiveWire decodes an inbound wire schema and delivers it. Malformed entries
// are skipped and returned; the error is set only when data is not a schema
// array.
func (s *Synchronizer) ReceiveWire(data []byte) (bool, []model.SchemaError, error) {
	fields, issues, err := model.DecodeSchema(data)
	if err != nil {
		return false, nil, err
	}
	for _, issue := range issues {
		s.logger.Warn().Err(issue).Int("index", issue.Index).Msg("skipping malformed inbound field")
	}
	return s.Receive(fields), issues, nil
}

// Flush emits a pending debounced change immediately.
func (s *Synchronizer) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.stopTimerLocked()
	fields := s.pending
	s.pending = nil
	s.mu.Unlock()

	if fields == nil {
		return nil
	}
	return s.publish(fields)
}

// LastError returns the most recent emission failure, nil after a success.
func (s *Synchronizer) LastError() *SyncError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Errors returns the field-scoped messages of the last failed emission.
func (s *Synchronizer) Errors() model.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil || len(s.lastErr.Fields) == 0 {
		return nil
	}
	return s.lastErr.Fields.Clone()
}

// Close unsubscribes from the store and drops any pending emission.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	unsubscribe := s.unsubscribe
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Synchronizer) onChange(fields []model.FieldDefinition) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.debounce > 0 {
		s.pending = fields
		s.stopTimerLocked()
		s.timer = time.AfterFunc(s.debounce, func() {
			_ = s.Flush()
		})
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	_ = s.publish(fields)
}

// publish emits fields when they differ from the outbound snapshot. The owner
// is called without holding the lock so it may deliver an echo through
// Receive synchronously.
func (s *Synchronizer) publish(fields []model.FieldDefinition) error {
	s.mu.Lock()
	if equalSchemas(s.outbound, fields) {
		s.mu.Unlock()
		s.logger.Debug().Int("fields", len(fields)).Msg("outbound schema unchanged")
		return nil
	}
	previous := s.outbound
	s.outbound = model.CloneFields(fields)
	s.mu.Unlock()

	err := s.owner.PublishSchema(s.ctx, model.ToWireSchema(fields))

	s.mu.Lock()
	if err == nil {
		s.lastErr = nil
		s.mu.Unlock()
		s.logger.Info().Int("fields", len(fields)).Msg("schema emitted")
		return nil
	}

	// Roll back unless a newer emission or adoption already moved on.
	if equalSchemas(s.outbound, fields) {
		s.outbound = previous
	}
	syncErr := newSyncError(fields, err)
	s.lastErr = syncErr
	onError := s.onError
	s.mu.Unlock()

	s.logger.Warn().Err(err).Strs("fields", syncErr.Fields.IDs()).Msg("owner rejected schema")
	if onError != nil {
		onError(syncErr)
	}
	return syncErr
}

func (s *Synchronizer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func equalSchemas(a, b []model.FieldDefinition) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
