package infrastructure

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/domain"
)

// HandlerRegistry routes broker messages to the handler bound to the source topic.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	if h == nil {
		return
	}
	topic := strings.TrimSpace(h.Topic())
	if topic == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[topic] = append(r.handlers[topic], h)
}

// Topics returns every broker topic with at least one handler.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch hands msg to the handlers of topic. Unknown topics are ignored.
func (r *HandlerRegistry) Dispatch(ctx context.Context, topic string, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	r.mu.RLock()
	handlers := r.handlers[strings.TrimSpace(topic)]
	r.mu.RUnlock()
	if len(handlers) == 0 {
		slog.Debug("broker message without handler", slog.String("topic", topic))
		return nil
	}
	for _, h := range handlers {
		if err := h.Handle(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
