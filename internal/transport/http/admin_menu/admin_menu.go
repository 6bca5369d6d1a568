package adminmenu

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/services/menusvc"
	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
	"github.com/gorilla/schema"
)

type service interface {
	List(ctx context.Context, filter menusvc.Filter) ([]menuitem.MenuItem, error)
	Get(ctx context.Context, id int64) (menuitem.MenuItem, error)
	Create(ctx context.Context, in menusvc.Input) (menuitem.MenuItem, error)
	Update(ctx context.Context, id int64, in menusvc.Input) (menuitem.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListItems returns every menu item, unavailable ones included.
func ListItems(w http.ResponseWriter, r *http.Request, service service) {
	filter := menusvc.Filter{}
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request", "error", err)

		return
	}

	items, err := service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, "admin list menu", err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

func GetItem(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	item, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, "admin get menu item", err)

		return
	}

	respond.JSON(w, http.StatusOK, item)
}

func CreateItem(w http.ResponseWriter, r *http.Request, service service) {
	req := menusvc.Input{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for menu item", "error", err)

		return
	}

	item, err := service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, "admin create menu item", err)

		return
	}

	respond.JSON(w, http.StatusCreated, item)
}

func UpdateItem(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	req := menusvc.Input{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		slog.Error("Error decoding request body for menu item", "error", err)

		return
	}

	item, err := service.Update(r.Context(), id, req)
	if err != nil {
		respond.Error(w, "admin update menu item", err)

		return
	}

	respond.JSON(w, http.StatusOK, item)
}

func DeleteItem(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.BadRequest(w, err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, "admin delete menu item", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
