package menu

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/services/menusvc"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/gorilla/schema"
)

type service interface {
	List(ctx context.Context, filter menusvc.Filter) ([]menuitem.MenuItem, error)
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListMenu returns available items, optionally of one category.
func ListMenu(w http.ResponseWriter, r *http.Request, service service) {
	filter := menusvc.Filter{}
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request", "error", err)

		return
	}
	filter.AvailableOnly = true

	items, err := service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, "list menu", err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}
