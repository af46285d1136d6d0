package rabbitmqrepo_test

import (
	"errors"
	"sync"
	"testing"

	rabbitmqrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/events/rabbitmq"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu        sync.Mutex
	published map[string]amqp.Publishing
}

func (f *fakePublisher) Publish(_, routingKey string, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if routingKey == "broken" {
		return errors.New("channel closed")
	}
	f.published[routingKey] = msg

	return nil
}

func TestPublishKeepsResultOrder(t *testing.T) {
	pub := &fakePublisher{published: map[string]amqp.Publishing{}}
	repo := rabbitmqrepo.NewEventRepository(pub)

	msgs := []outbox.OutboxMessage{
		{ID: 1, RoutingKey: "order.placed", Payload: []byte("a"), ContentType: "application/json"},
		{ID: 2, RoutingKey: "broken", Payload: []byte("b")},
		{ID: 3, RoutingKey: "order.status_changed", Payload: []byte("c")},
	}

	results := repo.Publish(t.Context(), msgs)
	require.Len(t, results, 3)
	assert.NoError(t, results[0])
	assert.EqualError(t, results[1], "channel closed")
	assert.NoError(t, results[2])

	assert.Equal(t, []byte("a"), pub.published["order.placed"].Body)
	assert.Equal(t, uint8(amqp.Persistent), pub.published["order.placed"].DeliveryMode)
}
