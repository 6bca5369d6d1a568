package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/corray333/cloud-kitchen/internal/service/models/session"
)

// MenuRepository keeps menu items.
type MenuRepository struct {
	access accessor
}

func (r *MenuRepository) Insert(_ context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error) {
	err := r.access(func(s *state) error {
		s.nextMenuID++
		item.ID = s.nextMenuID
		s.menu[item.ID] = item

		return nil
	})

	return item, err
}

func (r *MenuRepository) Update(_ context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error) {
	err := r.access(func(s *state) error {
		current, ok := s.menu[item.ID]
		if !ok {
			return menuitem.ErrNotFound
		}
		item.CreatedAt = current.CreatedAt
		s.menu[item.ID] = item

		return nil
	})
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	return item, nil
}

func (r *MenuRepository) Delete(_ context.Context, id int64) error {
	return r.access(func(s *state) error {
		if _, ok := s.menu[id]; !ok {
			return menuitem.ErrNotFound
		}
		delete(s.menu, id)

		return nil
	})
}

func (r *MenuRepository) GetByID(_ context.Context, id int64) (menuitem.MenuItem, error) {
	var item menuitem.MenuItem
	err := r.access(func(s *state) error {
		found, ok := s.menu[id]
		if !ok {
			return menuitem.ErrNotFound
		}
		item = found

		return nil
	})

	return item, err
}

func (r *MenuRepository) Query(
	_ context.Context,
	filter *menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	result := []menuitem.MenuItem{}
	err := r.access(func(s *state) error {
		for _, item := range s.menu {
			if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, item.ID) {
				continue
			}
			if filter.Category != "" && item.Category != filter.Category {
				continue
			}
			if filter.AvailableOnly && !item.Available {
				continue
			}
			result = append(result, item)
		}

		return nil
	})
	slices.SortFunc(result, func(a, b menuitem.MenuItem) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, err
}

func (r *MenuRepository) Count(_ context.Context) (int64, error) {
	var count int64
	err := r.access(func(s *state) error {
		count = int64(len(s.menu))

		return nil
	})

	return count, err
}

// OrderRepository keeps order headers.
type OrderRepository struct {
	access accessor
}

func (r *OrderRepository) Insert(_ context.Context, o order.Order) (order.Order, error) {
	err := r.access(func(s *state) error {
		s.nextOrderID++
		o.ID = s.nextOrderID
		o.OrderItems = nil
		s.orders[o.ID] = o

		return nil
	})
	o.OrderItems = []orderitem.OrderItem{}

	return o, err
}

func (r *OrderRepository) GetByID(_ context.Context, id int64) (order.Order, error) {
	var o order.Order
	err := r.access(func(s *state) error {
		found, ok := s.orders[id]
		if !ok {
			return order.ErrNotFound
		}
		o = found

		return nil
	})
	o.OrderItems = []orderitem.OrderItem{}

	return o, err
}

// Query returns orders newest first.
func (r *OrderRepository) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	result := []order.Order{}
	err := r.access(func(s *state) error {
		for _, o := range s.orders {
			if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, o.ID) {
				continue
			}
			o.OrderItems = []orderitem.OrderItem{}
			result = append(result, o)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b order.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []order.Order{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *OrderRepository) UpdateStatus(
	_ context.Context,
	id int64,
	status order.Status,
	updatedAt time.Time,
) error {
	return r.access(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return order.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = updatedAt
		s.orders[id] = o

		return nil
	})
}

// Delete removes the order and its items, matching ON DELETE CASCADE.
func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	return r.access(func(s *state) error {
		if _, ok := s.orders[id]; !ok {
			return order.ErrNotFound
		}
		delete(s.orders, id)
		for itemID, item := range s.orderItems {
			if item.OrderID == id {
				delete(s.orderItems, itemID)
			}
		}

		return nil
	})
}

// OrderItemRepository keeps order lines.
type OrderItemRepository struct {
	access accessor
}

func (r *OrderItemRepository) BulkInsert(
	_ context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	result := make([]orderitem.OrderItem, 0, len(orderItems))
	err := r.access(func(s *state) error {
		for _, item := range orderItems {
			s.nextOrderItemID++
			item.ID = s.nextOrderItemID
			item.MenuItemName = ""
			s.orderItems[item.ID] = item
			result = append(result, item)
		}

		return nil
	})

	return result, err
}

func (r *OrderItemRepository) Query(
	_ context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	result := []orderitem.OrderItem{}
	err := r.access(func(s *state) error {
		for _, item := range s.orderItems {
			if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, item.ID) {
				continue
			}
			if len(filter.OrderIds) > 0 && !slices.Contains(filter.OrderIds, item.OrderID) {
				continue
			}
			if len(filter.MenuItemIds) > 0 && !slices.Contains(filter.MenuItemIds, item.MenuItemID) {
				continue
			}
			result = append(result, item)
		}

		return nil
	})
	slices.SortFunc(result, func(a, b orderitem.OrderItem) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, err
}

func (r *OrderItemRepository) DeleteByOrderID(_ context.Context, orderID int64) error {
	return r.access(func(s *state) error {
		for id, item := range s.orderItems {
			if item.OrderID == orderID {
				delete(s.orderItems, id)
			}
		}

		return nil
	})
}

// SessionRepository keeps customer sessions.
type SessionRepository struct {
	access accessor
}

func (r *SessionRepository) Get(_ context.Context, id string) (session.Session, error) {
	sess := session.New(id)
	err := r.access(func(s *state) error {
		if found, ok := s.sessions[id]; ok {
			sess = found.Clone()
		}

		return nil
	})

	return sess, err
}

// GetForUpdate is Get; the transaction already holds the store lock.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id string) (session.Session, error) {
	return r.Get(ctx, id)
}

func (r *SessionRepository) Save(_ context.Context, sess session.Session) error {
	return r.access(func(s *state) error {
		s.sessions[sess.ID] = sess.Clone()

		return nil
	})
}

// OutboxRepository keeps unpublished events. A claim moves NextRetryAt past
// the lease the same way the PostgreSQL repository does.
type OutboxRepository struct {
	access accessor
}

func (r *OutboxRepository) Enqueue(_ context.Context, msg outbox.Message) error {
	return r.access(func(s *state) error {
		for _, existing := range s.outbox {
			if existing.MessageID == msg.MessageID {
				return fmt.Errorf("outbox message %s already enqueued", msg.MessageID)
			}
		}
		s.nextOutboxID++
		msg.ID = s.nextOutboxID
		s.outbox[msg.ID] = msg

		return nil
	})
}

func (r *OutboxRepository) Claim(_ context.Context, limit int, lease time.Duration) ([]outbox.Message, error) {
	now := time.Now()
	var claimed []outbox.Message
	err := r.access(func(s *state) error {
		for _, msg := range s.outbox {
			if msg.Due(now) {
				claimed = append(claimed, msg)
			}
		}
		slices.SortFunc(claimed, func(a, b outbox.Message) int {
			if c := a.NextRetryAt.Compare(b.NextRetryAt); c != 0 {
				return c
			}

			return cmp.Compare(a.ID, b.ID)
		})
		if limit > 0 && limit < len(claimed) {
			claimed = claimed[:limit]
		}
		for i := range claimed {
			claimed[i].NextRetryAt = now.Add(lease)
			s.outbox[claimed[i].ID] = claimed[i]
		}

		return nil
	})

	return claimed, err
}

func (r *OutboxRepository) Ack(_ context.Context, id int64) error {
	return r.access(func(s *state) error {
		delete(s.outbox, id)

		return nil
	})
}

func (r *OutboxRepository) Retry(_ context.Context, id int64, lastError string, backoff time.Duration) error {
	now := time.Now()

	return r.access(func(s *state) error {
		msg, ok := s.outbox[id]
		if !ok {
			return nil
		}
		msg.RetryCount++
		msg.LastError = lastError
		msg.NextRetryAt = now.Add(backoff)
		msg.UpdatedAt = now
		s.outbox[id] = msg

		return nil
	})
}
