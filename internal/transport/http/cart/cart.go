package carthttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/corray333/cloud-kitchen/pkg/http/middleware/session"
)

type service interface {
	View(ctx context.Context, sessionID string) (cart.View, error)
	Add(ctx context.Context, sessionID string, itemID int64, quantity int) error
	Update(ctx context.Context, sessionID string, itemID int64, quantity int) error
	Remove(ctx context.Context, sessionID string, itemID int64) error
	Clear(ctx context.Context, sessionID string) error
}

type addItemRequest struct {
	ItemID int64 `json:"itemId"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ViewCart returns the cart priced at current menu prices.
func ViewCart(w http.ResponseWriter, r *http.Request, service service) {
	writeView(w, r, service)
}

// AddItem adds to the quantity already in the cart.
func AddItem(w http.ResponseWriter, r *http.Request, service service) {
	req := addItemRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for add to cart", "error", err)

		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := service.Add(r.Context(), session.ID(r.Context()), req.ItemID, quantity); err != nil {
		respond.Error(w, "add to cart", err)

		return
	}

	writeView(w, r, service)
}

// UpdateItem sets the quantity of one entry; zero or less removes it.
func UpdateItem(w http.ResponseWriter, r *http.Request, service service) {
	itemID, err := respond.IDParam(r, "itemID")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	req := updateItemRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for cart update", "error", err)

		return
	}

	if err := service.Update(r.Context(), session.ID(r.Context()), itemID, req.Quantity); err != nil {
		respond.Error(w, "update cart", err)

		return
	}

	writeView(w, r, service)
}

func RemoveItem(w http.ResponseWriter, r *http.Request, service service) {
	itemID, err := respond.IDParam(r, "itemID")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	if err := service.Remove(r.Context(), session.ID(r.Context()), itemID); err != nil {
		respond.Error(w, "remove from cart", err)

		return
	}

	writeView(w, r, service)
}

func ClearCart(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Clear(r.Context(), session.ID(r.Context())); err != nil {
		respond.Error(w, "clear cart", err)

		return
	}

	writeView(w, r, service)
}

func writeView(w http.ResponseWriter, r *http.Request, service service) {
	view, err := service.View(r.Context(), session.ID(r.Context()))
	if err != nil {
		respond.Error(w, "view cart", err)

		return
	}

	respond.JSON(w, http.StatusOK, view)
}
