// Package memory is an in-process implementation of the repositories.
// Transactions serialize on one lock and roll back by restoring a snapshot.
// Writes outside a transaction take the same lock, so a rollback only undoes its own writes.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
)

// Store holds every table in maps.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data tables
}

type tables struct {
	products   map[uuid.UUID]product.Product
	orders     map[int64]order.Order
	orderItems map[int64]orderitem.OrderItem
	users      map[uuid.UUID]user.User
	outbox     map[int64]outbox.OutboxMessage

	orderSeq     int64
	orderItemSeq int64
	outboxSeq    int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data: tables{
			products:   make(map[uuid.UUID]product.Product),
			orders:     make(map[int64]order.Order),
			orderItems: make(map[int64]orderitem.OrderItem),
			users:      make(map[uuid.UUID]user.User),
			outbox:     make(map[int64]outbox.OutboxMessage),
		},
	}
}

func (t tables) clone() tables {
	c := t
	c.products = make(map[uuid.UUID]product.Product, len(t.products))
	for id, p := range t.products {
		c.products[id] = cloneProduct(p)
	}
	c.orders = maps.Clone(t.orders)
	c.orderItems = maps.Clone(t.orderItems)
	c.users = maps.Clone(t.users)
	c.outbox = maps.Clone(t.outbox)

	return c
}

func cloneProduct(p product.Product) product.Product {
	p.WeightVariants = slices.Clone(p.WeightVariants)
	if p.WeightVariants == nil {
		p.WeightVariants = []product.WeightVariant{}
	}

	return p
}

func (s *Store) snapshot() tables {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.clone()
}

func (s *Store) restore(t tables) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = t
}
