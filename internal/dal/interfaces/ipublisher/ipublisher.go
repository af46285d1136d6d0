package ipublisher

import (
	"context"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
)

// IEventPublisher delivers outbox messages to the broker.
type IEventPublisher interface {
	// Publish sends every message and returns one result per message, in input order.
	Publish(ctx context.Context, msgs []outbox.OutboxMessage) []error
}
