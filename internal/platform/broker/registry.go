package broker

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"acornAdmin/internal/modules/listview/domain"
)

// Dispatcher routes a decoded message by the topic it was read from.
type Dispatcher interface {
	Topics() []string
	Dispatch(ctx context.Context, topic string, msg *domain.Message) error
}

// StartKafkaConsumers runs one consumer per dispatcher topic and blocks until ctx is done.
func StartKafkaConsumers(ctx context.Context, dispatcher Dispatcher, brokers []string, groupID string) error {
	topics := dispatcher.Topics()
	if len(brokers) == 0 || len(topics) == 0 {
		slog.Info("kafka consumers disabled", slog.Int("brokers", len(brokers)), slog.Int("topics", len(topics)))
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		topic := topic
		g.Go(func() error {
			consumer := NewKafkaConsumer(brokers, groupID, topic)
			slog.Info("kafka consumer started", slog.String("topic", topic), slog.String("groupId", groupID))
			return consumer.Consume(gctx, func(ctx context.Context, msg *domain.Message) error {
				return dispatcher.Dispatch(ctx, topic, msg)
			})
		})
	}
	return g.Wait()
}
