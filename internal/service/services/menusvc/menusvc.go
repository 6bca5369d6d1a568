package menusvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

// CategoryAll disables category filtering in List.
const CategoryAll = "all"

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("10000")
)

// Input is the editable part of a menu item.
type Input struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"    validate:"required,oneof=starters main_course desserts beverages"`
	// Available defaults to true when omitted.
	Available *bool `json:"available"`
}

// Filter narrows List.
type Filter struct {
	Category      string `schema:"category"`
	AvailableOnly bool   `schema:"-"`
}

// MenuService manages the catalog.
type MenuService struct {
	newUOW    uow.Factory
	validator *validation.Validator
	now       func() time.Time
}

// option is a function that configures the MenuService.
type option func(*MenuService)

// MustNewMenuService creates a new MenuService.
func MustNewMenuService(opts ...option) *MenuService {
	s := &MenuService{
		validator: validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("menusvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the datastore of the MenuService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f uow.Factory) option {
	return func(s *MenuService) {
		s.newUOW = f
	}
}

// WithClock overrides time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *MenuService) {
		s.now = now
	}
}

// List returns menu items ordered by id. An unknown category matches nothing.
func (s *MenuService) List(ctx context.Context, filter Filter) ([]menuitem.MenuItem, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.List")
	defer span.End()

	query := &menuitem.QueryMenuItemsModel{AvailableOnly: filter.AvailableOnly}
	if filter.Category != "" && filter.Category != CategoryAll {
		category, err := menuitem.ParseCategory(filter.Category)
		if err != nil {
			return []menuitem.MenuItem{}, nil
		}
		query.Category = category
	}

	items, err := s.newUOW().MenuRepository().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}

	return items, nil
}

// Get returns menuitem.ErrNotFound for an unknown id.
func (s *MenuService) Get(ctx context.Context, id int64) (menuitem.MenuItem, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Get")
	defer span.End()

	return s.newUOW().MenuRepository().GetByID(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, in Input) (menuitem.MenuItem, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Create")
	defer span.End()

	item, err := s.fromInput(in)
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	now := s.now()
	item.CreatedAt = now
	item.UpdatedAt = now

	created, err := s.newUOW().MenuRepository().Insert(ctx, item)
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to create menu item: %w", err)
	}

	slog.Info("Menu item created", "menu_item_id", created.ID, "name", created.Name)

	return created, nil
}

// Update replaces every editable field of the item. Orders already placed
// keep the price they were committed with.
func (s *MenuService) Update(ctx context.Context, id int64, in Input) (menuitem.MenuItem, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Update")
	defer span.End()

	item, err := s.fromInput(in)
	if err != nil {
		return menuitem.MenuItem{}, err
	}
	item.ID = id
	item.UpdatedAt = s.now()

	updated, err := s.newUOW().MenuRepository().Update(ctx, item)
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	slog.Info("Menu item updated", "menu_item_id", id)

	return updated, nil
}

// Delete removes the item permanently. Carts and orders that reference it are untouched.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.Delete")
	defer span.End()

	if err := s.newUOW().MenuRepository().Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Menu item deleted", "menu_item_id", id)

	return nil
}

// SeedDefaults inserts the sample menu when the catalog is empty and
// returns how many items were created.
func (s *MenuService) SeedDefaults(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MenuService.SeedDefaults")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	count, err := work.MenuRepository().Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := s.now()
	for _, item := range DefaultItems() {
		item.CreatedAt = now
		item.UpdatedAt = now
		if _, err := work.MenuRepository().Insert(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to seed %q: %w", item.Name, err)
		}
	}

	if err := work.Commit(ctx); err != nil {
		return 0, err
	}

	slog.Info("Menu seeded", "count", len(DefaultItems()))

	return len(DefaultItems()), nil
}

func (s *MenuService) fromInput(in Input) (menuitem.MenuItem, error) {
	verr := &validation.Error{}
	if err := s.validator.Struct(in); err != nil {
		if !errors.As(err, &verr) {
			return menuitem.MenuItem{}, err
		}
	}
	if in.Price.LessThan(minPrice) || in.Price.GreaterThan(maxPrice) {
		verr.Fields = append(verr.Fields, validation.FieldError{
			Field:   "price",
			Rule:    "range",
			Message: "must be between 0.01 and 10000",
		})
	}
	if len(verr.Fields) > 0 {
		return menuitem.MenuItem{}, verr
	}

	category, err := menuitem.ParseCategory(in.Category)
	if err != nil {
		return menuitem.MenuItem{}, validation.Field("category", "oneof", err.Error())
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}

	return menuitem.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    category,
		Available:   available,
	}, nil
}
