package broker

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acornAdmin/internal/modules/listview/domain"
)

func TestDecodeMessageFromEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	msg := decodeMessage(kafka.Message{
		Topic: "acorn.customer",
		Time:  at,
		Value: []byte(`{"entity":"customer","action":"deleted","resourceId":42}`),
	})

	assert.Equal(t, "customer", msg.Entity)
	assert.Equal(t, "deleted", msg.Action)
	assert.Equal(t, "42", msg.ResourceID)
	assert.Equal(t, "customer.deleted", msg.Topic)
	assert.Equal(t, at, msg.Timestamp)
}

func TestDecodeMessageStringResourceAndDefaults(t *testing.T) {
	msg := decodeMessage(kafka.Message{
		Topic: "acorn.product",
		Value: []byte(`{"resourceId":" P-01 "}`),
	})

	assert.Equal(t, "product", msg.Entity)
	assert.Equal(t, "unknown", msg.Action)
	assert.Equal(t, "P-01", msg.ResourceID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestDecodeMessageFallsBackToTopicOnInvalidJSON(t *testing.T) {
	msg := decodeMessage(kafka.Message{Topic: "product.created", Value: []byte("not json")})

	assert.Equal(t, "product", msg.Entity)
	assert.Equal(t, "created", msg.Action)
	assert.Equal(t, "product.created", msg.Topic)
	assert.Equal(t, "not json", msg.Data)
}

type emptyDispatcher struct{}

func (emptyDispatcher) Topics() []string { return nil }
func (emptyDispatcher) Dispatch(context.Context, string, *domain.Message) error {
	return nil
}

func TestStartKafkaConsumersWithoutBrokersReturns(t *testing.T) {
	require.NoError(t, StartKafkaConsumers(context.Background(), emptyDispatcher{}, nil, "group"))
}
