package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/models/event"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
	"github.com/corray333/cloud-kitchen/internal/service/pricing"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"go.opentelemetry.io/otel"
)

// ListFilter pages through the ledger.
type ListFilter struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

// OrderService owns the order ledger.
type OrderService struct {
	newUOW      uow.Factory
	now         func() time.Time
	eventsQueue string
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("ordersvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the datastore of the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f uow.Factory) option {
	return func(s *OrderService) {
		s.newUOW = f
	}
}

// WithEventsQueue makes every ledger change enqueue an outbox event routed to queue.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventsQueue(queue string) option {
	return func(s *OrderService) {
		s.eventsQueue = queue
	}
}

// WithClock overrides time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// Commit turns the session's staged checkout and cart into an order.
//
// The order row, its items, the outbox event and the cleared session are
// written in one transaction. Items are priced at the catalog price read
// here; items deleted since staging are dropped while the staged total is kept.
// On any failure nothing is written and the session stays as it was.
func (s *OrderService) Commit(
	ctx context.Context,
	sessionID string,
	method order.PaymentMethod,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Commit")
	defer span.End()

	if _, err := order.ParsePaymentMethod(method.String()); err != nil {
		return order.Order{}, validation.Field("paymentMethod", "oneof", "must be one of: cash card")
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	sess, err := work.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Checkout == nil || sess.Cart.IsEmpty() {
		return order.Order{}, checkout.ErrIncompleteCheckout
	}

	now := s.now()
	details := sess.Checkout

	created, err := work.OrderRepository().Insert(ctx, order.Order{
		CustomerName:    details.CustomerName,
		CustomerEmail:   details.CustomerEmail,
		CustomerPhone:   details.CustomerPhone,
		CustomerAddress: details.CustomerAddress,
		TotalAmount:     details.Total,
		Status:          order.StatusConfirmed,
		PaymentStatus:   order.PaymentStatusFor(method),
		PaymentMethod:   method,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	catalog, err := pricing.LoadCatalog(ctx, work.MenuRepository(), sess.Cart)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]orderitem.OrderItem, 0, len(sess.Cart.Items))
	for _, id := range sess.Cart.ItemIDs() {
		menuItem, ok := catalog[id]
		if !ok {
			slog.Warn("Menu item vanished before commit, dropping line",
				"session_id", sessionID,
				"menu_item_id", id)

			continue
		}
		items = append(items, orderitem.OrderItem{
			OrderID:    created.ID,
			MenuItemID: id,
			Quantity:   sess.Cart.Quantity(id),
			Price:      menuItem.Price,
		})
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order items: %w", err)
	}
	for i := range items {
		items[i].MenuItemName = catalog[items[i].MenuItemID].Name
	}
	created.OrderItems = items

	if itemsTotal := created.ItemsTotal(); !itemsTotal.Equal(created.TotalAmount) {
		slog.Warn("Order total differs from its committed lines",
			"session_id", sessionID,
			"total", created.TotalAmount.StringFixed(2),
			"items_total", itemsTotal.StringFixed(2))
	}

	if err := s.enqueue(ctx, work, event.Created(created, now)); err != nil {
		return order.Order{}, err
	}

	next := sess.Clone()
	next.Reset()
	next.UpdatedAt = now
	if err := work.SessionRepository().Save(ctx, next); err != nil {
		return order.Order{}, fmt.Errorf("failed to clear session: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit order: %w", err)
	}

	slog.Info("Order committed",
		"order_id", created.ID,
		"items", len(created.OrderItems),
		"total", created.TotalAmount.StringFixed(2),
		"payment_method", created.PaymentMethod,
		"payment_status", created.PaymentStatus)

	return created, nil
}

// Get returns the order with its items. Items whose menu entry no longer
// exists are labelled orderitem.UnknownMenuItemName.
func (s *OrderService) Get(ctx context.Context, id int64) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Get")
	defer span.End()

	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	orders := []order.Order{o}
	if err := s.attachItems(ctx, work, orders); err != nil {
		return order.Order{}, err
	}

	return orders[0], nil
}

// Track is Get for customers: a missing order is reported through found.
// Ids below 1 never match an order.
func (s *OrderService) Track(ctx context.Context, id int64) (o order.Order, found bool, err error) {
	if id < 1 {
		return order.Order{}, false, nil
	}

	o, err = s.Get(ctx, id)
	if errors.Is(err, order.ErrNotFound) {
		return order.Order{}, false, nil
	}
	if err != nil {
		return order.Order{}, false, err
	}

	return o, true, nil
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, filter ListFilter) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.List")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.attachItems(ctx, work, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus moves the order to status. A value outside the known set is
// ignored and the order is returned unchanged.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	current, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	next, err := order.ParseStatus(status)
	if err != nil || !order.IsValidTransition(current.Status, next) {
		slog.Warn("Status update ignored", "order_id", id, "status", status)

		orders := []order.Order{current}
		if err := s.attachItems(ctx, work, orders); err != nil {
			return order.Order{}, err
		}

		return orders[0], nil
	}

	now := s.now()
	if err := work.OrderRepository().UpdateStatus(ctx, id, next, now); err != nil {
		return order.Order{}, err
	}

	previous := current.Status
	current.Status = next
	current.UpdatedAt = now
	if err := s.enqueue(ctx, work, event.StatusChanged(current, previous, now)); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit status update: %w", err)
	}

	slog.Info("Order status updated", "order_id", id, "from", previous, "to", next)

	return s.Get(ctx, id)
}

// Delete removes the order and all of its items.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Delete")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	current, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := work.OrderItemRepository().DeleteByOrderID(ctx, id); err != nil {
		return err
	}
	if err := work.OrderRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := s.enqueue(ctx, work, event.Deleted(current, s.now())); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}

	slog.Info("Order deleted", "order_id", id)

	return nil
}

func (s *OrderService) attachItems(ctx context.Context, work uow.UnitOfWork, orders []order.Order) error {
	orderItemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		orderItemQuery.OrderIds = append(orderItemQuery.OrderIds, o.ID)
	}

	orderItems, err := work.OrderItemRepository().Query(ctx, orderItemQuery)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}

	menuQuery := &menuitem.QueryMenuItemsModel{}
	for _, item := range orderItems {
		menuQuery.Ids = append(menuQuery.Ids, item.MenuItemID)
	}

	names := map[int64]string{}
	if len(menuQuery.Ids) > 0 {
		menuItems, err := work.MenuRepository().Query(ctx, menuQuery)
		if err != nil {
			return fmt.Errorf("failed to resolve menu items: %w", err)
		}
		for _, m := range menuItems {
			names[m.ID] = m.Name
		}
	}

	byOrder := make(map[int64][]orderitem.OrderItem, len(orders))
	for _, item := range orderItems {
		item.MenuItemName = orderitem.UnknownMenuItemName
		if name, ok := names[item.MenuItemID]; ok {
			item.MenuItemName = name
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].OrderItems = byOrder[orders[i].ID]
		if orders[i].OrderItems == nil {
			orders[i].OrderItems = []orderitem.OrderItem{}
		}
	}

	return nil
}

func (s *OrderService) enqueue(ctx context.Context, work uow.UnitOfWork, ev event.OrderEvent) error {
	if s.eventsQueue == "" {
		return nil
	}

	msg, err := ev.ToOutbox(s.eventsQueue)
	if err != nil {
		return err
	}

	if err := work.OutboxRepository().Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", ev.Type, err)
	}

	return nil
}
