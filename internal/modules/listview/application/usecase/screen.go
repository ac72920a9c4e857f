package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/shared/clock"
)

// DetailLine is one label/value pair of a detail modal.
type DetailLine struct {
	Label string
	Value string
}

// FormField describes one input of a registration modal.
type FormField struct {
	Name     string
	Label    string
	Type     string
	Options  []string
	Required bool
}

// Screen is the configuration of one admin list screen. Creator and Deleter are optional and
// enable the registration and delete modals respectively.
type Screen[T any, P any] struct {
	Name         string
	Title        string
	Entity       string
	Table        domain.Table[T]
	List         ControllerConfig[T]
	PageSizes    []int
	Detail       func(T) []DetailLine
	CreateTitle  string
	FormFields   []FormField
	Creator      port.RecordCreator[P]
	Deleter      port.RecordDeleter
	DeletePrompt func(T) string
}

// ScreenView is everything one browser session holds for a screen.
type ScreenView[T any, P any] struct {
	Controller *Controller[T]
	Detail     *Modal[T]
	Create     *CreateModal[P]
	Delete     *DeleteModal[T]
	stale      atomic.Bool
}

// Close unmounts the view, cancelling any fetch in flight.
func (v *ScreenView[T, P]) Close() {
	v.CloseModals()
	v.Controller.Close()
}

// CloseModals hides every dialog of the view.
func (v *ScreenView[T, P]) CloseModals() {
	v.Detail.Close()
	if v.Create != nil {
		v.Create.Close()
	}
	if v.Delete != nil {
		v.Delete.Cancel()
	}
}

// MarkStale makes the next mount re-fetch the collection.
func (v *ScreenView[T, P]) MarkStale() {
	v.stale.Store(true)
}

// Invalidator is the non-generic face of a screen used by broker handlers.
type Invalidator interface {
	Name() string
	Entity() string
	Invalidate(ctx context.Context, cause, resourceID, exceptSession string)
}

// ScreenService binds a screen to its per-session views.
type ScreenService[T any, P any] struct {
	screen    Screen[T, P]
	sessions  *SessionStore[*ScreenView[T, P]]
	broadcast *BroadcastUseCase
}

func NewScreenService[T any, P any](screen Screen[T, P], ttl time.Duration, clk clock.Clock, broadcast *BroadcastUseCase) *ScreenService[T, P] {
	svc := &ScreenService[T, P]{screen: screen, broadcast: broadcast}
	svc.sessions = NewSessionStore(ttl, clk, svc.newView)
	return svc
}

func (s *ScreenService[T, P]) newView(sessionID string) (*ScreenView[T, P], error) {
	controller, err := NewController(s.screen.List)
	if err != nil {
		return nil, err
	}
	view := &ScreenView[T, P]{Controller: controller, Detail: &Modal[T]{}}
	hook := func(ctx context.Context, action, resourceID string) {
		s.Invalidate(ctx, action, resourceID, sessionID)
	}
	if s.screen.Creator != nil {
		view.Create = NewCreateModal(s.screen.Creator, controller, hook)
	}
	if s.screen.Deleter != nil && s.screen.List.IDOf != nil {
		view.Delete = NewDeleteModal(s.screen.Deleter, s.screen.List.IDOf, controller, hook)
	}
	return view, nil
}

func (s *ScreenService[T, P]) Name() string   { return s.screen.Name }
func (s *ScreenService[T, P]) Entity() string { return s.screen.Entity }

// Screen returns the screen configuration.
func (s *ScreenService[T, P]) Screen() Screen[T, P] { return s.screen }

// Mount returns the session's view, fetching the collection on first mount or after an
// invalidation. A failed fetch is not fatal: the view keeps its last data and carries LastError.
func (s *ScreenService[T, P]) Mount(ctx context.Context, sessionID string) (string, *ScreenView[T, P], error) {
	id, view, created, err := s.sessions.Mount(sessionID)
	if err != nil {
		return "", nil, err
	}
	wasStale := view.stale.Swap(false)
	if created || wasStale {
		if err := view.Controller.Initialize(ctx); err != nil && !errors.Is(err, port.ErrStaleFetch) {
			// An invalidated view keeps asking for fresh data until one fetch succeeds.
			if wasStale {
				view.MarkStale()
			}
			slog.Warn("screen mount without data", slog.String("screen", s.screen.Name), slog.String("sessionId", id), slog.Any("error", err))
		}
	}
	return id, view, nil
}

// View returns an already mounted view.
func (s *ScreenService[T, P]) View(sessionID string) (*ScreenView[T, P], bool) {
	return s.sessions.Get(sessionID)
}

// Unmount discards the session's view.
func (s *ScreenService[T, P]) Unmount(sessionID string) bool {
	return s.sessions.Unmount(sessionID)
}

// Sweep drops idle sessions.
func (s *ScreenService[T, P]) Sweep() int {
	return s.sessions.Sweep()
}

// Sessions returns the number of mounted views.
func (s *ScreenService[T, P]) Sessions() int {
	return s.sessions.Len()
}

// Invalidate marks every view except exceptSession stale and notifies connected browsers.
func (s *ScreenService[T, P]) Invalidate(ctx context.Context, cause, resourceID, exceptSession string) {
	except := strings.TrimSpace(exceptSession)
	marked := 0
	s.sessions.Each(func(id string, view *ScreenView[T, P]) {
		if id == except {
			return
		}
		view.MarkStale()
		marked++
	})
	slog.Info("screen invalidated", slog.String("screen", s.screen.Name), slog.String("cause", cause), slog.String("resourceId", resourceID), slog.Int("sessions", marked))
	s.broadcast.Invalidated(ctx, s.screen.Name, cause, resourceID)
}

var _ Invalidator = (*ScreenService[struct{}, struct{}])(nil)
