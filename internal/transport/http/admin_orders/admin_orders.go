package adminorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/services/ordersvc"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/gorilla/schema"
)

type service interface {
	List(ctx context.Context, filter ordersvc.ListFilter) ([]order.Order, error)
	Get(ctx context.Context, id int64) (order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (order.Order, error)
	Delete(ctx context.Context, id int64) error
}

type queryOrdersRequest struct {
	Limit  int `schema:"limit,omitempty"`
	Offset int `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() ordersvc.ListFilter {
	return ordersvc.ListFilter{
		Limit:  max(q.Limit, 0),
		Offset: max(q.Offset, 0),
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// ListOrders returns orders newest first.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.List(r.Context(), query.ToModel())
	if err != nil {
		respond.Error(w, "admin list orders", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, "admin get order", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}

// UpdateStatus sets the order status. An unknown status leaves the order
// unchanged and still answers 200 with the current order.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	o, err := service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, "admin update order status", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}

// DeleteOrder removes the order together with its items.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, "admin delete order", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
