package uow

import (
	"context"
	"errors"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/imenurepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/isessionrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	menurepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/menu/postgres"
	orderrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/outbox/postgres"
	sessionrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/session/postgres"
	"github.com/jackc/pgx/v5"
)

// UnitOfWork groups the kitchen repositories. Before Begin the repositories
// run directly on the datastore; after Begin they share one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is a no-op after Commit.
	Rollback(ctx context.Context) error

	MenuRepository() imenurepo.IMenuRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	SessionRepository() isessionrepo.ISessionRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// Factory returns a fresh unit of work per operation.
type Factory func() UnitOfWork

type unitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	menuRepo      imenurepo.IMenuRepository
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	sessionRepo   isessionrepo.ISessionRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewFactory returns a Factory of Postgres-backed units of work.
func NewFactory(client *postgres.Client) Factory {
	return func() UnitOfWork {
		return NewUnitOfWork(client)
	}
}

// NewUnitOfWork creates a unit of work whose repositories use the pool until Begin.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.GenericConn) {
	u.menuRepo = menurepo.NewPostgresMenuRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.sessionRepo = sessionrepo.NewPostgresSessionRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *unitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return u.menuRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) SessionRepository() isessionrepo.ISessionRepository {
	return u.sessionRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	// Rebind repositories to the transaction
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return err
}
