// Package handlers – shared read models.
//
// This file defines the JSON projections returned by the API and the
// presenter helpers that build them from domain rows plus viewer-relative
// flags. Projections are deliberately separate from the persistence models:
// the wire shape carries derived fields (is_favorited, is_in_shopping_cart,
// is_subscribed) that only exist relative to a viewer, and nests author and
// ingredient data the storage layer keeps normalized.
package handlers

import (
	"time"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// UserResponse is the public user projection. IsSubscribed is relative to
// the requesting viewer and always false for anonymous requests.
type UserResponse struct {
	ID           string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Email        string `json:"email" example:"chef@example.com"`
	Username     string `json:"username" example:"chef"`
	FirstName    string `json:"first_name" example:"Julia"`
	LastName     string `json:"last_name" example:"Child"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientLineResponse is one aggregated ingredient line of a recipe:
// reference-data fields flattened together with the per-recipe amount.
type IngredientLineResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name" example:"flour"`
	MeasurementUnit string `json:"measurement_unit" example:"g"`
	Amount          int    `json:"amount" example:"200"`
}

// RecipeResponse is the full recipe projection returned by reads and
// confirmed writes.
type RecipeResponse struct {
	ID               string                   `json:"id"`
	Tags             []domain.Tag             `json:"tags"`
	Author           UserResponse             `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name" example:"Ratatouille"`
	Image            string                   `json:"image" example:"/media/recipe/1b9be034.png"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time" example:"45"`
	PubDate          time.Time                `json:"pub_date"`
}

// ShortRecipeResponse is the abbreviated recipe projection used by the
// favorite/cart confirmations and subscription previews.
type ShortRecipeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is one followed author with a recipe preview. The
// preview honors the recipes_limit query parameter; RecipesCount always
// reflects the author's full catalogue.
type SubscriptionResponse struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	Username     string                `json:"username"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	IsSubscribed bool                  `json:"is_subscribed"`
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination computes the derived pagination fields.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// presentUser builds the user projection.
func presentUser(u domain.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// presentRecipe builds the full recipe projection from a preloaded row.
func presentRecipe(r *domain.Recipe, flags services.RecipeFlags, authorSubscribed bool) RecipeResponse {
	lines := make([]IngredientLineResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		lines = append(lines, IngredientLineResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	tags := r.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           presentUser(r.Author, authorSubscribed),
		Ingredients:      lines,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.CreatedAt,
	}
}

// presentShortRecipe builds the abbreviated projection.
func presentShortRecipe(r *domain.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// presentSubscription builds the followed-author projection. IsSubscribed is
// true by construction: the row only exists because the viewer follows the
// author.
func presentSubscription(v services.SubscriptionView) SubscriptionResponse {
	preview := make([]ShortRecipeResponse, 0, len(v.Recipes))
	for i := range v.Recipes {
		preview = append(preview, presentShortRecipe(&v.Recipes[i]))
	}
	return SubscriptionResponse{
		ID:           v.Author.ID,
		Email:        v.Author.Email,
		Username:     v.Author.Username,
		FirstName:    v.Author.FirstName,
		LastName:     v.Author.LastName,
		IsSubscribed: true,
		Recipes:      preview,
		RecipesCount: v.RecipeCount,
	}
}
