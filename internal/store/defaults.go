package store

import (
	"context"
	"fmt"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/shopspring/decimal"
)

// Seedable is satisfied by both Memory and Store.
type Seedable interface {
	SetPrice(ctx context.Context, meal domain.MealType, price decimal.Decimal) error
	SetMenu(ctx context.Context, m domain.Menu) error
}

// DefaultPrices is the price table written by the seeder.
var DefaultPrices = map[domain.MealType]decimal.Decimal{
	domain.Breakfast: decimal.RequireFromString("30.00"),
	domain.Lunch:     decimal.RequireFromString("60.00"),
	domain.Dinner:    decimal.RequireFromString("55.00"),
}

var DefaultMenu = domain.Menu{
	Breakfast: "poha, tea",
	Lunch:     "dal, rice, roti",
	Dinner:    "paneer, roti, kheer",
}

// SeedDefaults writes DefaultPrices and DefaultMenu.
func SeedDefaults(ctx context.Context, s Seedable) error {
	for _, m := range domain.AllMealTypes {
		if err := s.SetPrice(ctx, m, DefaultPrices[m]); err != nil {
			return fmt.Errorf("set %s price: %w", m, err)
		}
	}
	if err := s.SetMenu(ctx, DefaultMenu); err != nil {
		return fmt.Errorf("set menu: %w", err)
	}
	return nil
}
