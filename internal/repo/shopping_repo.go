// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the shopping list aggregation query: the
// join from a user's cart entries through recipes and ingredient lines down
// to ingredients, grouped and summed by (name, measurement unit).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ShoppingLine is one aggregated row of a user's shopping list: a distinct
// (ingredient name, measurement unit) pair with the exact integer sum of
// amounts across every recipe in the cart.
type ShoppingLine struct {
	Name            string `json:"ingredient_name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

// AggregateShoppingList joins cart_entries(user) → recipe_ingredients →
// ingredients and sums amounts per (name, measurement_unit) group in a
// single read-only query. An ingredient appearing in several cart recipes
// collapses into one row. Returns an empty slice when the cart is empty;
// the service layer decides whether that is an error.
//
// No ordering is applied here; the service sorts with a Unicode collator so
// rendering stays deterministic across locales.
func AggregateShoppingList(ctx context.Context, db *gorm.DB, userID string) ([]ShoppingLine, error) {
	var rows []ShoppingLine
	err := db.WithContext(ctx).
		Model(&domain.CartEntry{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	return rows, err
}
