package cartsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/pricing"
	"go.opentelemetry.io/otel"
)

// CartService keeps each session's cart. Every mutation is saved immediately.
type CartService struct {
	newUOW uow.Factory
	now    func() time.Time
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("cartsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the datastore of the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f uow.Factory) option {
	return func(s *CartService) {
		s.newUOW = f
	}
}

// View prices the cart at current catalog prices. Entries whose menu item
// was deleted are left out of both the lines and the total.
func (s *CartService) View(ctx context.Context, sessionID string) (cart.View, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CartService.View")
	defer span.End()

	work := s.newUOW()

	sess, err := work.SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return cart.View{}, fmt.Errorf("failed to load session: %w", err)
	}

	catalog, err := pricing.LoadCatalog(ctx, work.MenuRepository(), sess.Cart)
	if err != nil {
		return cart.View{}, err
	}

	return pricing.Snapshot(sess.Cart, catalog), nil
}

// Add adds quantity units of itemID on top of what is already in the cart.
func (s *CartService) Add(ctx context.Context, sessionID string, itemID int64, quantity int) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CartService.Add")
	defer span.End()

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.Add(itemID, quantity)
	})
}

// Update sets the quantity of itemID. Zero or less removes the entry.
func (s *CartService) Update(ctx context.Context, sessionID string, itemID int64, quantity int) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CartService.Update")
	defer span.End()

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.Update(itemID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID string, itemID int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CartService.Remove")
	defer span.End()

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Remove(itemID)

		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CartService.Clear")
	defer span.End()

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()

		return nil
	})
}

// Count returns the number of units in the cart.
func (s *CartService) Count(ctx context.Context, sessionID string) (int, error) {
	sess, err := s.newUOW().SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}

	total := 0
	for _, q := range sess.Cart.Items {
		total += q
	}

	return total, nil
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*cart.Cart) error) error {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	sess, err := work.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	next := sess.Clone()
	if err := fn(&next.Cart); err != nil {
		return err
	}

	next.UpdatedAt = s.now()
	if err := work.SessionRepository().Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return work.Commit(ctx)
}
