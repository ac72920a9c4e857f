package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

type fakeMutator struct {
	created []registration
	deleted []string
	err     error
}

func (f *fakeMutator) Create(_ context.Context, payload registration) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, payload)
	return nil
}

func (f *fakeMutator) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type countingRefresher struct{ calls int }

func (r *countingRefresher) Initialize(context.Context) error {
	r.calls++
	return nil
}

func TestModal_OpenCloseSelection(t *testing.T) {
	t.Parallel()

	var modal Modal[member]
	assert.False(t, modal.Visible())

	record := member{ID: "c-1", Name: "Kim"}
	modal.Open(&record)
	record.Name = "mutated"

	selected, ok := modal.Selected()
	require.True(t, ok)
	assert.Equal(t, "Kim", selected.Name, "modal keeps its own copy")
	assert.True(t, modal.Visible())

	modal.Close()
	assert.False(t, modal.Visible())
	_, ok = modal.Selected()
	assert.False(t, ok)
}

func TestDeleteModal_CancelDoesNotDelete(t *testing.T) {
	t.Parallel()

	mutator := &fakeMutator{}
	refresher := &countingRefresher{}
	modal := NewDeleteModal(mutator, func(m member) string { return m.ID }, refresher, nil)

	modal.Open(&member{ID: "c-1"})
	modal.Cancel()

	assert.False(t, modal.Visible())
	assert.Empty(t, mutator.deleted)
	assert.Zero(t, refresher.calls)
	assert.ErrorIs(t, modal.Confirm(context.Background()), ErrNothingSelected)
	assert.Empty(t, mutator.deleted)
}

func TestDeleteModal_ConfirmDeletesAndRefetches(t *testing.T) {
	t.Parallel()

	mutator := &fakeMutator{}
	refresher := &countingRefresher{}
	var hooked []string
	hook := func(_ context.Context, action, id string) { hooked = append(hooked, action+":"+id) }
	modal := NewDeleteModal(mutator, func(m member) string { return m.ID }, refresher, hook)

	modal.Open(&member{ID: "c-7"})
	require.NoError(t, modal.Confirm(context.Background()))

	assert.Equal(t, []string{"c-7"}, mutator.deleted)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, []string{"deleted:c-7"}, hooked)
	assert.False(t, modal.Visible())
}

func TestDeleteModal_FailureKeepsModalOpen(t *testing.T) {
	t.Parallel()

	mutator := &fakeMutator{err: errors.New("backend down")}
	refresher := &countingRefresher{}
	modal := NewDeleteModal(mutator, func(m member) string { return m.ID }, refresher, nil)

	modal.Open(&member{ID: "c-7"})
	require.Error(t, modal.Confirm(context.Background()))
	assert.True(t, modal.Visible())
	assert.Zero(t, refresher.calls)
}

type gatedDeleter struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (d *gatedDeleter) Delete(context.Context, string) error {
	d.calls.Add(1)
	d.entered <- struct{}{}
	<-d.release
	return nil
}

func TestDeleteModal_ConcurrentConfirmDeletesOnce(t *testing.T) {
	t.Parallel()

	deleter := &gatedDeleter{entered: make(chan struct{}, 2), release: make(chan struct{})}
	modal := NewDeleteModal[member](deleter, func(m member) string { return m.ID }, nil, nil)
	modal.Open(&member{ID: "c-3"})

	first := make(chan error, 1)
	go func() { first <- modal.Confirm(context.Background()) }()
	<-deleter.entered

	assert.ErrorIs(t, modal.Confirm(context.Background()), ErrNothingSelected)

	close(deleter.release)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), deleter.calls.Load())
	assert.False(t, modal.Visible())
}

func TestCreateModal_Submit(t *testing.T) {
	t.Parallel()

	mutator := &fakeMutator{}
	refresher := &countingRefresher{}
	modal := NewCreateModal[registration](mutator, refresher, nil)

	err := modal.Submit(context.Background(), registration{Name: "Kim"})
	assert.ErrorIs(t, err, ErrModalClosed)

	modal.Open(nil)
	err = modal.Submit(context.Background(), registration{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.True(t, modal.Visible())
	assert.Empty(t, mutator.created)

	require.NoError(t, modal.Submit(context.Background(), registration{Name: "Kim", Email: "kim@example.com"}))
	assert.Len(t, mutator.created, 1)
	assert.Equal(t, 1, refresher.calls)
	assert.False(t, modal.Visible())
}
