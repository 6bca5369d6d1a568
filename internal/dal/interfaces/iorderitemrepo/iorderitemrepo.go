package iorderitemrepo

import (
	"context"

	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item repository.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, orderItems []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	Query(
		ctx context.Context,
		filter *orderitem.QueryOrderItemsModel,
	) ([]orderitem.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
