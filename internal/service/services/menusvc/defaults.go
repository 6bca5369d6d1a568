package menusvc

import (
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/shopspring/decimal"
)

// DefaultItems is the sample menu used to seed an empty catalog.
func DefaultItems() []menuitem.MenuItem {
	return []menuitem.MenuItem{
		{
			Name:        "Spring Rolls",
			Description: "Crispy vegetable spring rolls",
			Price:       decimal.RequireFromString("5.99"),
			Category:    menuitem.CategoryStarters,
			Available:   true,
		},
		{
			Name:        "Chicken Tikka",
			Description: "Grilled chicken with spices",
			Price:       decimal.RequireFromString("12.99"),
			Category:    menuitem.CategoryMainCourse,
			Available:   true,
		},
		{
			Name:        "Butter Chicken",
			Description: "Creamy tomato-based chicken curry",
			Price:       decimal.RequireFromString("14.99"),
			Category:    menuitem.CategoryMainCourse,
			Available:   true,
		},
		{
			Name:        "Vegetable Biryani",
			Description: "Aromatic rice with mixed vegetables",
			Price:       decimal.RequireFromString("10.99"),
			Category:    menuitem.CategoryMainCourse,
			Available:   true,
		},
		{
			Name:        "Chocolate Brownie",
			Description: "Rich chocolate brownie with ice cream",
			Price:       decimal.RequireFromString("6.99"),
			Category:    menuitem.CategoryDesserts,
			Available:   true,
		},
		{
			Name:        "Mango Lassi",
			Description: "Sweet mango yogurt drink",
			Price:       decimal.RequireFromString("3.99"),
			Category:    menuitem.CategoryBeverages,
			Available:   true,
		},
	}
}
