package pricing

import (
	"context"
	"testing"

	"github.com/corray333/cloud-kitchen/internal/dal/memory"
	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, name, price string) menuitem.MenuItem {
	return menuitem.MenuItem{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Category:  menuitem.CategoryStarters,
		Available: true,
	}
}

func TestSnapshot(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(2, 1))
	require.NoError(t, c.Add(1, 2))

	view := Snapshot(c, Catalog{
		1: item(1, "Spring Rolls", "5.99"),
		2: item(2, "Chicken Tikka", "12.99"),
	})

	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(1), view.Lines[0].ItemID)
	assert.Equal(t, "Spring Rolls", view.Lines[0].Name)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "11.98", view.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "12.99", view.Lines[1].Subtotal.StringFixed(2))
	assert.Equal(t, "24.97", view.Total.StringFixed(2))
}

func TestSnapshotSkipsMissingItems(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(1, 2))
	require.NoError(t, c.Add(99, 5))

	view := Snapshot(c, Catalog{1: item(1, "Spring Rolls", "5.99")})

	require.Len(t, view.Lines, 1)
	assert.Equal(t, "11.98", view.Total.StringFixed(2))
}

func TestSnapshotEmptyCart(t *testing.T) {
	view := Snapshot(cart.New(), Catalog{})

	assert.True(t, view.IsEmpty())
	assert.NotNil(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestSnapshotIgnoresAvailability(t *testing.T) {
	unavailable := item(1, "Mango Lassi", "3.99")
	unavailable.Available = false

	c := cart.New()
	require.NoError(t, c.Add(1, 1))

	view := Snapshot(c, Catalog{1: unavailable})

	assert.Equal(t, "3.99", view.Total.StringFixed(2))
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.MenuRepository()

	rolls, err := repo.Insert(ctx, item(0, "Spring Rolls", "5.99"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, item(0, "Brownie", "6.99"))
	require.NoError(t, err)

	c := cart.New()
	require.NoError(t, c.Add(rolls.ID, 1))
	require.NoError(t, c.Add(404, 1))

	catalog, err := LoadCatalog(ctx, repo, c)
	require.NoError(t, err)

	assert.Len(t, catalog, 1)
	assert.Equal(t, "Spring Rolls", catalog[rolls.ID].Name)
}

func TestLoadCatalogEmptyCartSkipsQuery(t *testing.T) {
	catalog, err := LoadCatalog(context.Background(), nil, cart.New())

	require.NoError(t, err)
	assert.Empty(t, catalog)
}
