// Package memory is an in-process datastore with the same repositories and
// unit of work as the Postgres one. A transaction works on a private copy of
// the data and holds the store lock until it commits or rolls back.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/imenurepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/isessionrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/corray333/cloud-kitchen/internal/service/models/session"
)

var ErrTxAlreadyStarted = errors.New("transaction already started")

type state struct {
	menu       map[int64]menuitem.MenuItem
	orders     map[int64]order.Order
	orderItems map[int64]orderitem.OrderItem
	sessions   map[string]session.Session
	outbox     map[int64]outbox.Message

	nextMenuID      int64
	nextOrderID     int64
	nextOrderItemID int64
	nextOutboxID    int64
}

func newState() *state {
	return &state{
		menu:       map[int64]menuitem.MenuItem{},
		orders:     map[int64]order.Order{},
		orderItems: map[int64]orderitem.OrderItem{},
		sessions:   map[string]session.Session{},
		outbox:     map[int64]outbox.Message{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.menu {
		out.menu[k] = v
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.orderItems {
		out.orderItems[k] = v
	}
	for k, v := range s.sessions {
		out.sessions[k] = v.Clone()
	}
	for k, v := range s.outbox {
		out.outbox[k] = v
	}
	out.nextMenuID = s.nextMenuID
	out.nextOrderID = s.nextOrderID
	out.nextOrderItemID = s.nextOrderItemID
	out.nextOutboxID = s.nextOutboxID

	return out
}

// accessor runs fn against the data it is bound to.
type accessor func(fn func(*state) error) error

// Store is the shared in-memory datastore.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) locked(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.data)
}

// MenuRepository returns a non-transactional menu repository.
func (s *Store) MenuRepository() *MenuRepository {
	return &MenuRepository{access: s.locked}
}

// OrderRepository returns a non-transactional order repository.
func (s *Store) OrderRepository() *OrderRepository {
	return &OrderRepository{access: s.locked}
}

// OrderItemRepository returns a non-transactional order item repository.
func (s *Store) OrderItemRepository() *OrderItemRepository {
	return &OrderItemRepository{access: s.locked}
}

// SessionRepository returns a non-transactional session repository.
func (s *Store) SessionRepository() *SessionRepository {
	return &SessionRepository{access: s.locked}
}

// OutboxRepository returns a non-transactional outbox repository.
func (s *Store) OutboxRepository() *OutboxRepository {
	return &OutboxRepository{access: s.locked}
}

// Factory returns a uow.Factory over this store.
func (s *Store) Factory() uow.Factory {
	return func() uow.UnitOfWork {
		return s.NewUnitOfWork()
	}
}

// NewUnitOfWork creates a unit of work over this store.
func (s *Store) NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{store: s}
}

// UnitOfWork implements uow.UnitOfWork.
type UnitOfWork struct {
	store   *Store
	working *state
}

func (u *UnitOfWork) access(fn func(*state) error) error {
	if u.working != nil {
		return fn(u.working)
	}

	return u.store.locked(fn)
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.working != nil {
		return ErrTxAlreadyStarted
	}

	u.store.mu.Lock()
	u.working = u.store.data.clone()

	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.working == nil {
		return nil
	}

	u.store.data = u.working
	u.working = nil
	u.store.mu.Unlock()

	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.working == nil {
		return nil
	}

	u.working = nil
	u.store.mu.Unlock()

	return nil
}

func (u *UnitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return &MenuRepository{access: u.access}
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return &OrderRepository{access: u.access}
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &OrderItemRepository{access: u.access}
}

func (u *UnitOfWork) SessionRepository() isessionrepo.ISessionRepository {
	return &SessionRepository{access: u.access}
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &OutboxRepository{access: u.access}
}
