package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/corray333/cloud-kitchen/pkg/http/middleware/session"
)

type service interface {
	Commit(ctx context.Context, sessionID string, method order.PaymentMethod) (order.Order, error)
}

// payRequest carries the payment form. Card fields are checked for length
// only and are never stored or forwarded.
type payRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cash card"`
	CardNumber    string `json:"cardNumber"    validate:"max=19"`
	CardName      string `json:"cardName"      validate:"max=100"`
	CardExpiry    string `json:"cardExpiry"    validate:"max=5"`
	CardCvv       string `json:"cardCvv"       validate:"max=4"`
}

type payResponse struct {
	Order      order.Order `json:"order"`
	RedirectTo string      `json:"redirectTo"`
}

var validator = validation.New()

// Pay places the order for the session's staged checkout.
func Pay(w http.ResponseWriter, r *http.Request, service service) {
	req := payRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for payment", "error", err)

		return
	}

	if err := validator.Struct(req); err != nil {
		respond.Error(w, "validate payment", err)

		return
	}

	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respond.Error(w, "validate payment", validation.Field("paymentMethod", "oneof", err.Error()))

		return
	}

	placed, err := service.Commit(r.Context(), session.ID(r.Context()), method)
	if err != nil {
		respond.Error(w, "commit order", err)

		return
	}

	respond.JSON(w, http.StatusCreated, payResponse{
		Order:      placed,
		RedirectTo: fmt.Sprintf("/api/orders/%d/confirmation", placed.ID),
	})
}
