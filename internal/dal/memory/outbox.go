package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
)

// OutboxRepository stores outbox messages in memory.
type OutboxRepository struct {
	store *Store
	work  *UnitOfWork
}

func (r *OutboxRepository) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.outboxSeq++
	msg.ID = r.store.data.outboxSeq
	r.store.data.outbox[msg.ID] = msg

	return nil
}

func (r *OutboxRepository) GetPendingMessages(_ context.Context, now time.Time, limit int) ([]outbox.OutboxMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []outbox.OutboxMessage
	for _, msg := range r.store.data.outbox {
		if !msg.NextRetryAt.After(now) && msg.RetryCount < msg.MaxRetries {
			result = append(result, msg)
		}
	}

	slices.SortFunc(result, func(a, b outbox.OutboxMessage) int {
		if c := a.NextRetryAt.Compare(b.NextRetryAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *OutboxRepository) Delete(_ context.Context, id int64) error {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.data.outbox, id)

	return nil
}

func (r *OutboxRepository) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	msg, ok := r.store.data.outbox[id]
	if !ok {
		return fmt.Errorf("outboxrepo.UpdateRetry: %w", errs.ErrNotFound)
	}

	msg.RetryCount = retryCount
	msg.LastError = lastError
	msg.NextRetryAt = nextRetryAt
	msg.UpdatedAt = time.Now()
	r.store.data.outbox[id] = msg

	return nil
}
