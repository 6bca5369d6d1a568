// Package pricing prices a cart against the current catalog.
package pricing

import (
	"context"
	"fmt"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/imenurepo"
	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/shopspring/decimal"
)

// Catalog maps menu item ids to their current record.
type Catalog map[int64]menuitem.MenuItem

// LoadCatalog fetches the menu items referenced by c.
// Ids that no longer exist are simply absent from the result.
func LoadCatalog(ctx context.Context, repo imenurepo.IMenuRepository, c cart.Cart) (Catalog, error) {
	catalog := Catalog{}
	if c.IsEmpty() {
		return catalog, nil
	}

	items, err := repo.Query(ctx, &menuitem.QueryMenuItemsModel{Ids: c.ItemIDs()})
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	for _, item := range items {
		catalog[item.ID] = item
	}

	return catalog, nil
}

// Snapshot prices every cart entry at its current catalog price.
// Entries whose menu item is missing from catalog are skipped.
func Snapshot(c cart.Cart, catalog Catalog) cart.View {
	view := cart.View{
		Lines: []cart.Line{},
		Total: decimal.Zero,
	}

	for _, id := range c.ItemIDs() {
		item, ok := catalog[id]
		if !ok {
			continue
		}

		quantity := c.Quantity(id)
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(quantity)))
		view.Lines = append(view.Lines, cart.Line{
			ItemID:   id,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}

	return view
}
