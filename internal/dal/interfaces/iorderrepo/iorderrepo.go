package iorderrepo

import (
	"context"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
)

// IOrderRepository is an interface for the order repository.
type IOrderRepository interface {
	// Insert stores o and returns it with its generated id.
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	// GetByID returns order.ErrNotFound when the order does not exist.
	GetByID(ctx context.Context, id int64) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
