package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"acornAdmin/internal/modules/listview/application/port"
)

var (
	ErrNothingSelected = errors.New("no record selected")
	ErrModalClosed     = errors.New("modal is not open")
	ErrInvalidPayload  = errors.New("invalid payload")
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// Refresher re-runs the full collection fetch after a successful mutation.
type Refresher interface {
	Initialize(ctx context.Context) error
}

// MutationHook is told about a completed create/delete so other views can be invalidated.
type MutationHook func(ctx context.Context, action, resourceID string)

// Modal is a visibility flag plus an optional selected record (detail view).
type Modal[T any] struct {
	mu       sync.Mutex
	visible  bool
	selected *T
}

// Open shows the modal; record may be nil for modals without a selection.
func (m *Modal[T]) Open(record *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = true
	if record == nil {
		m.selected = nil
		return
	}
	copied := *record
	m.selected = &copied
}

// Close hides the modal and clears the selection.
func (m *Modal[T]) Close() {
	m.mu.Lock()
	m.visible = false
	m.selected = nil
	m.mu.Unlock()
}

// Visible reports whether the modal is shown.
func (m *Modal[T]) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Selected returns the selected record, if any.
func (m *Modal[T]) Selected() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if !m.visible || m.selected == nil {
		return zero, false
	}
	return *m.selected, true
}

// take returns the selection and closes the modal in one step, so only one caller gets it.
func (m *Modal[T]) take() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if !m.visible || m.selected == nil {
		return zero, false
	}
	record := *m.selected
	m.visible = false
	m.selected = nil
	return record, true
}

// restore reopens the modal on record unless something else was opened meanwhile.
func (m *Modal[T]) restore(record T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.visible {
		return
	}
	m.visible = true
	m.selected = &record
}

// CreateModal drives a registration form: validate, create, close, re-fetch.
type CreateModal[P any] struct {
	Modal[struct{}]
	creator   port.RecordCreator[P]
	refresher Refresher
	onCreated MutationHook
}

func NewCreateModal[P any](creator port.RecordCreator[P], refresher Refresher, hook MutationHook) *CreateModal[P] {
	return &CreateModal[P]{creator: creator, refresher: refresher, onCreated: hook}
}

// Submit creates the record. On any error the modal stays open so the form can be corrected.
func (m *CreateModal[P]) Submit(ctx context.Context, payload P) error {
	if !m.Visible() {
		return ErrModalClosed
	}
	if err := payloadValidator.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := m.creator.Create(ctx, payload); err != nil {
		slog.Warn("record create failed", slog.Any("error", err))
		return err
	}
	m.Close()
	refreshAfterMutation(ctx, m.refresher)
	if m.onCreated != nil {
		m.onCreated(ctx, "created", "")
	}
	return nil
}

// DeleteModal asks for an explicit confirmation before the destructive call fires.
type DeleteModal[T any] struct {
	Modal[T]
	deleter   port.RecordDeleter
	idOf      func(T) string
	refresher Refresher
	onDeleted MutationHook
}

func NewDeleteModal[T any](deleter port.RecordDeleter, idOf func(T) string, refresher Refresher, hook MutationHook) *DeleteModal[T] {
	return &DeleteModal[T]{deleter: deleter, idOf: idOf, refresher: refresher, onDeleted: hook}
}

// Cancel closes the dialog without deleting anything.
func (m *DeleteModal[T]) Cancel() {
	m.Close()
}

// Confirm deletes the selected record, closes the dialog and re-fetches the collection. A failed
// delete leaves the dialog open on the same record.
func (m *DeleteModal[T]) Confirm(ctx context.Context) error {
	record, ok := m.take()
	if !ok {
		return ErrNothingSelected
	}
	id := strings.TrimSpace(m.idOf(record))
	if id == "" {
		return ErrNothingSelected
	}
	if err := m.deleter.Delete(ctx, id); err != nil {
		slog.Warn("record delete failed", slog.String("resourceId", id), slog.Any("error", err))
		m.restore(record)
		return err
	}
	refreshAfterMutation(ctx, m.refresher)
	if m.onDeleted != nil {
		m.onDeleted(ctx, "deleted", id)
	}
	return nil
}

// The mutation already succeeded; a failing re-fetch is recorded by the controller itself.
func refreshAfterMutation(ctx context.Context, refresher Refresher) {
	if refresher == nil {
		return
	}
	if err := refresher.Initialize(ctx); err != nil && !errors.Is(err, port.ErrStaleFetch) {
		slog.Warn("re-fetch after mutation failed", slog.Any("error", err))
	}
}
