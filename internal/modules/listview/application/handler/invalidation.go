package handler

import (
	"context"
	"log/slog"
	"strings"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/domain"
)

// InvalidationHandler marks a screen stale when the backend reports a change on its entity.
type InvalidationHandler struct {
	topic          string
	screen         usecase.Invalidator
	allowedActions map[string]struct{}
}

// NewInvalidationHandler binds a broker topic to screen. An empty allowedActions accepts created,
// updated and deleted events.
func NewInvalidationHandler(topic string, screen usecase.Invalidator, allowedActions []string) *InvalidationHandler {
	if len(allowedActions) == 0 {
		allowedActions = []string{domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted}
	}
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &InvalidationHandler{
		topic:          strings.TrimSpace(topic),
		screen:         screen,
		allowedActions: actionSet,
	}
}

func (h *InvalidationHandler) Topic() string { return h.topic }

func (h *InvalidationHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil || h.screen == nil {
		return nil
	}
	action := strings.ToLower(strings.TrimSpace(msg.Action))
	if _, ok := h.allowedActions[action]; !ok {
		slog.Debug("invalidation skipped", slog.String("topic", h.topic), slog.String("action", msg.Action))
		return nil
	}
	entity := strings.TrimSpace(msg.Entity)
	if entity != "" && !strings.EqualFold(entity, h.screen.Entity()) {
		slog.Debug("invalidation skipped foreign entity", slog.String("topic", h.topic), slog.String("entity", entity))
		return nil
	}
	h.screen.Invalidate(ctx, action, msg.ResourceID, "")
	return nil
}

var _ port.TopicHandler = (*InvalidationHandler)(nil)
