package tracking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	Track(ctx context.Context, id int64) (order.Order, bool, error)
}

type trackResponse struct {
	Found   bool         `json:"found"`
	Order   *order.Order `json:"order,omitempty"`
	Message string       `json:"message,omitempty"`
}

// TrackOrder looks an order up for a customer. An unknown or non-positive id
// is a normal answer with found set to false; only non-numeric ids are rejected.
func TrackOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.BadRequest(w, errors.New("invalid id"))

		return
	}

	o, found, err := service.Track(r.Context(), id)
	if err != nil {
		respond.Error(w, "track order", err)

		return
	}

	if !found {
		respond.JSON(w, http.StatusOK, trackResponse{Message: "Order not found. Please check your order number."})

		return
	}

	respond.JSON(w, http.StatusOK, trackResponse{Found: true, Order: &o})
}
