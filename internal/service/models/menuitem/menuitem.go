package menuitem

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Category is a menu section.
type Category string

const (
	CategoryStarters   Category = "starters"
	CategoryMainCourse Category = "main_course"
	CategoryDesserts   Category = "desserts"
	CategoryBeverages  Category = "beverages"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrNotFound        = errors.New("menu item not found")
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryStarters, CategoryMainCourse, CategoryDesserts, CategoryBeverages}
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Value() (driver.Value, error) {
	return c.String(), nil
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if c.String() == s {
			return c, nil
		}
	}

	return "", ErrInvalidCategory
}

// MenuItem represents a dish on the menu.
type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// QueryMenuItemsModel represents filter parameters for querying menu items.
type QueryMenuItemsModel struct {
	Ids           []int64
	Category      Category
	AvailableOnly bool
}
