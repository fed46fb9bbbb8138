// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// aggregate and its ingredient lines and tag associations.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a recipe is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Query composition:
//   - RecipeFilter is an explicit specification object; ListRecipes and
//     CountRecipes consume it and evaluate it exactly once. There is no
//     deferred queryset composition anywhere above this layer.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// RecipeFilter narrows the recipe listing. All criteria are optional and
// combined with AND semantics; TagSlugs is OR within itself (a recipe
// matches when it carries ANY of the given tags).
//
// FavoritedBy and InCartOf hold the viewer's user id when the corresponding
// boolean criterion is requested; the anonymous-viewer short circuit (empty
// result, no query) happens in the service layer, never here.
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string
	FavoritedBy string
	InCartOf    string
}

// apply composes the filter onto q. db is the root handle used to build
// uncorrelated subqueries.
func (f RecipeFilter) apply(db, q *gorm.DB) *gorm.DB {
	if f.AuthorID != "" {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.FavoritedBy != "" {
		sub := db.Model(&domain.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", f.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.InCartOf != "" {
		sub := db.Model(&domain.CartEntry{}).
			Select("recipe_id").
			Where("user_id = ?", f.InCartOf)
		q = q.Where("recipes.id IN (?)", sub)
	}
	return q
}

// CreateRecipe inserts the recipe row only; tag associations and ingredient
// lines are written separately (see ReplaceTags / ReplaceIngredientLines)
// inside the same transaction. The recipe ID is a randomly generated UUID
// and CreatedAt is set to UTC.
func CreateRecipe(ctx context.Context, db *gorm.DB, authorID, name, text, image string, cookingTime int) (*domain.Recipe, error) {
	r := &domain.Recipe{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Name:        name,
		Text:        text,
		Image:       image,
		CookingTime: cookingTime,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecipe fetches a single recipe by ID with its author, tags, ingredient
// lines, and each line's ingredient preloaded. Returns ErrNotFound if the
// record does not exist.
func GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRecipeFields updates the mutable scalar columns of a recipe.
// CreatedAt (publication time) is never touched. If no rows are affected
// (recipe missing), it returns ErrNotFound.
func UpdateRecipeFields(ctx context.Context, db *gorm.DB, id, name, text, image string, cookingTime int) error {
	updates := map[string]any{
		"name":         name,
		"text":         text,
		"cooking_time": cookingTime,
	}
	if image != "" {
		updates["image"] = image
	}
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe row. Ingredient lines, tag associations,
// favorites, and cart entries follow via FK cascade. Returns ErrNotFound
// when the recipe does not exist.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceTags clears the recipe's tag associations and attaches the given
// tags. Intended to run inside the composition engine's transaction.
func ReplaceTags(ctx context.Context, db *gorm.DB, recipeID string, tags []domain.Tag) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{ID: recipeID}).
		Association("Tags").
		Replace(&tags)
}

// ReplaceIngredientLines deletes every ingredient line of the recipe and
// bulk-inserts the given set. Line IDs and the recipe id are assigned here.
// Intended to run inside the composition engine's transaction.
func ReplaceIngredientLines(ctx context.Context, db *gorm.DB, recipeID string, lines []domain.RecipeIngredient) error {
	tx := db.WithContext(ctx)
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ID = uuid.NewString()
		lines[i].RecipeID = recipeID
	}
	return tx.Create(&lines).Error
}

// CountRecipes returns the number of recipes matching the filter.
func CountRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Recipe{})
	err := f.apply(db, q).Count(&total).Error
	return total, err
}

// ListRecipes returns a page of recipes matching the filter, newest first
// (publication time descending), with author, tags, and ingredient lines
// preloaded. Use CountRecipes for pagination metadata.
func ListRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter, offset, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	q := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient")
	err := f.apply(db, q).
		Order("recipes.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListRecipesByAuthor returns the author's recipes, newest first, truncated
// to limit when limit > 0. Used for the subscription preview list.
func ListRecipesByAuthor(ctx context.Context, db *gorm.DB, authorID string, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	q := db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountRecipesByAuthor returns the author's total recipe count, independent
// of any preview truncation.
func CountRecipesByAuthor(ctx context.Context, db *gorm.DB, authorID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&total).Error
	return total, err
}
