package checkouthttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/services/checkoutsvc"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/corray333/cloud-kitchen/pkg/http/middleware/session"
)

type service interface {
	Summary(ctx context.Context, sessionID string) (checkoutsvc.Summary, error)
	Stage(ctx context.Context, sessionID string, in checkout.Input) (checkout.Details, error)
}

type stageResponse struct {
	Checkout   checkout.Details `json:"checkout"`
	RedirectTo string           `json:"redirectTo"`
}

// GetCheckout returns the cart under review and any details staged before.
func GetCheckout(w http.ResponseWriter, r *http.Request, service service) {
	summary, err := service.Summary(r.Context(), session.ID(r.Context()))
	if err != nil {
		respond.Error(w, "checkout summary", err)

		return
	}

	respond.JSON(w, http.StatusOK, summary)
}

// StageCheckout validates the delivery details and freezes the order total.
func StageCheckout(w http.ResponseWriter, r *http.Request, service service) {
	req := checkout.Input{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for checkout", "error", err)

		return
	}

	details, err := service.Stage(r.Context(), session.ID(r.Context()), req)
	if err != nil {
		respond.Error(w, "stage checkout", err)

		return
	}

	respond.JSON(w, http.StatusOK, stageResponse{Checkout: details, RedirectTo: respond.RedirectPayment})
}
