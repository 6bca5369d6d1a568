package orders

import (
	"context"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
)

type service interface {
	Get(ctx context.Context, id int64) (order.Order, error)
}

// GetOrder returns one order with its items, or 404.
// It serves both the read API and the confirmation page.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, "get order", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
