// Package respond writes JSON bodies and maps service errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/go-chi/chi/v5"
)

const (
	RedirectMenu     = "/menu"
	RedirectCheckout = "/checkout"
	RedirectPayment  = "/payment"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error      string                  `json:"error"`
	Fields     []validation.FieldError `json:"fields,omitempty"`
	RedirectTo string                  `json:"redirectTo,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// BadRequest reports a request that could not be decoded.
func BadRequest(w http.ResponseWriter, err error) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
}

// Error maps err to a status and writes it. op names the failing call in logs.
func Error(w http.ResponseWriter, op string, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: "invalid input", Fields: verr.Fields})
	case errors.Is(err, validation.ErrInvalidInput):
		JSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		JSON(w, http.StatusConflict, ErrorBody{Error: err.Error(), RedirectTo: RedirectMenu})
	case errors.Is(err, checkout.ErrIncompleteCheckout):
		JSON(w, http.StatusConflict, ErrorBody{Error: err.Error(), RedirectTo: RedirectCheckout})
	case errors.Is(err, order.ErrNotFound), errors.Is(err, menuitem.ErrNotFound):
		JSON(w, http.StatusNotFound, ErrorBody{Error: err.Error()})
	default:
		slog.Error("Error handling request", "op", op, "error", err)
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal server error"})

		return
	}

	slog.Debug("Request rejected", "op", op, "error", err)
}

// IDParam parses the chi URL parameter name as a positive int64.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid " + name)
	}

	return id, nil
}
