package rabbitmqrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// publisher is the subset of rabbitmq.Client the repository needs.
type publisher interface {
	Publish(exchange, routingKey string, msg amqp.Publishing) error
}

// EventRabbitMQRepository publishes order events to a topic exchange.
type EventRabbitMQRepository struct {
	client      publisher
	concurrency int
	timeout     time.Duration
}

// NewEventRabbitMQRepository declares exchange and returns a repository publishing to it.
func NewEventRabbitMQRepository(client *rabbitmq.Client, exchange string) *EventRabbitMQRepository {
	err := client.DeclareExchange(rabbitmq.DeclareExchangeConfig{
		Name:    exchange,
		Kind:    amqp.ExchangeTopic,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return NewEventRepository(client)
}

// NewEventRepository wraps an already prepared publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func NewEventRepository(client publisher) *EventRabbitMQRepository {
	return &EventRabbitMQRepository{
		client:      client,
		concurrency: 3,
		timeout:     30 * time.Second,
	}
}

// Publish sends msgs with bounded concurrency. The i-th result belongs to msgs[i].
func (r *EventRabbitMQRepository) Publish(ctx context.Context, msgs []outbox.OutboxMessage) []error {
	results := make([]error, len(msgs))

	publishCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	g, publishCtx := errgroup.WithContext(publishCtx)
	g.SetLimit(r.concurrency)

	for i, msg := range msgs {
		g.Go(func() error {
			if err := publishCtx.Err(); err != nil {
				results[i] = err

				return nil
			}

			results[i] = r.client.Publish(
				msg.ExchangeName,
				msg.RoutingKey,
				amqp.Publishing{
					ContentType:  msg.ContentType,
					DeliveryMode: amqp.Persistent,
					Timestamp:    msg.CreatedAt,
					Body:         msg.Payload,
				},
			)

			return nil
		})
	}

	_ = g.Wait()

	return results
}
