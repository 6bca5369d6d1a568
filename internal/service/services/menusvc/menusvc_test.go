package menusvc

import (
	"context"
	"strings"
	"testing"

	"github.com/corray333/cloud-kitchen/internal/dal/memory"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *MenuService {
	t.Helper()

	return MustNewMenuService(WithUnitOfWorkFactory(memory.NewStore().Factory()))
}

func input(name, price, category string) Input {
	return Input{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}
}

func fields(t *testing.T, err error) []string {
	t.Helper()

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	out := []string{}
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}

	return out
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc := newService(t)

	item, err := svc.Create(context.Background(), input("Paneer Tikka", "9.5", "starters"))
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.True(t, item.Available)
	assert.Equal(t, menuitem.CategoryStarters, item.Category)
	assert.Equal(t, "9.50", item.Price.StringFixed(2))
	assert.False(t, item.CreatedAt.IsZero())
}

func TestCreateRoundsPriceToCents(t *testing.T) {
	item, err := newService(t).Create(context.Background(), input("Kulfi", "4.999", "desserts"))
	require.NoError(t, err)

	assert.Equal(t, "5.00", item.Price.StringFixed(2))
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		in     Input
		fields []string
	}{
		{name: "empty name", in: input("", "5", "starters"), fields: []string{"name"}},
		{name: "long name", in: input(strings.Repeat("x", 101), "5", "starters"), fields: []string{"name"}},
		{name: "price too low", in: input("Tea", "0", "beverages"), fields: []string{"price"}},
		{name: "price too high", in: input("Feast", "10000.01", "main_course"), fields: []string{"price"}},
		{name: "bad category", in: input("Soup", "5", "soups"), fields: []string{"category"}},
		{name: "everything", in: input("", "-1", ""), fields: []string{"name", "category", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(t).Create(context.Background(), tt.in)

			require.ErrorIs(t, err, validation.ErrInvalidInput)
			assert.ElementsMatch(t, tt.fields, fields(t, err))
		})
	}
}

func TestCreateBoundaryPrices(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), input("Mint", "0.01", "desserts"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), input("Banquet", "10000", "main_course"))
	require.NoError(t, err)
}

func TestCreateLongDescription(t *testing.T) {
	in := input("Thali", "15", "main_course")
	in.Description = strings.Repeat("d", 501)

	_, err := newService(t).Create(context.Background(), in)

	assert.Equal(t, []string{"description"}, fields(t, err))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, input("Samosa", "3", "starters"))
	require.NoError(t, err)
	hidden := input("Gulab Jamun", "4", "desserts")
	off := false
	hidden.Available = &off
	_, err = svc.Create(ctx, hidden)
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("Lassi", "2", "beverages"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "admin sees all", filter: Filter{}, want: []string{"Samosa", "Gulab Jamun", "Lassi"}},
		{name: "public hides unavailable", filter: Filter{AvailableOnly: true}, want: []string{"Samosa", "Lassi"}},
		{name: "all means no category", filter: Filter{Category: CategoryAll, AvailableOnly: true}, want: []string{"Samosa", "Lassi"}},
		{name: "category", filter: Filter{Category: "beverages", AvailableOnly: true}, want: []string{"Lassi"}},
		{name: "unavailable category", filter: Filter{Category: "desserts", AvailableOnly: true}, want: []string{}},
		{name: "unknown category", filter: Filter{Category: "soups"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)

			names := []string{}
			for _, item := range items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, input("Dosa", "6", "main_course"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, input("Masala Dosa", "7.25", "main_course"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Masala Dosa", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.25", got.Price.StringFixed(2))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, menuitem.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), menuitem.ErrNotFound)
}

func TestUpdateUnknownAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Update(ctx, 404, input("Idli", "3", "starters"))
	assert.ErrorIs(t, err, menuitem.ErrNotFound)

	_, err = svc.Update(ctx, 404, input("", "3", "starters"))
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestSeedDefaultsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	n, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	items, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, "Spring Rolls", items[0].Name)
	assert.Equal(t, "5.99", items[0].Price.StringFixed(2))
}

func TestSeedDefaultsSkipsNonEmptyMenu(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.Create(ctx, input("House Special", "20", "main_course"))
	require.NoError(t, err)

	n, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
