package imenurepo

import (
	"context"

	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
)

// IMenuRepository is an interface for the catalog repository.
type IMenuRepository interface {
	Insert(ctx context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error)
	// Update returns menuitem.ErrNotFound when the item does not exist.
	Update(ctx context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error)
	// Delete returns menuitem.ErrNotFound when the item does not exist.
	Delete(ctx context.Context, id int64) error
	// GetByID returns menuitem.ErrNotFound when the item does not exist.
	GetByID(ctx context.Context, id int64) (menuitem.MenuItem, error)
	Query(ctx context.Context, filter *menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error)
	Count(ctx context.Context) (int64, error)
}
