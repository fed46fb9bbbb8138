// Package services – ViewService
//
// This file implements the per-user view resolver: the pure read
// projections that annotate recipes and authors with viewer-relative flags
// (is_favorited, is_in_shopping_cart, is_subscribed). The viewer is always
// an explicit argument; an empty viewer id means anonymous, and every
// method short-circuits to false flags for anonymous viewers WITHOUT
// issuing a store query.
//
// List annotation uses the batched variants so a page of N recipes costs a
// constant number of queries, while single-item semantics stay "state at
// read time".
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// RecipeFlags carries the viewer-relative derived fields of one recipe.
type RecipeFlags struct {
	IsFavorited bool
	IsInCart    bool
}

// ViewService computes viewer-relative derived fields. It performs no
// writes and is safe to call per item in a list response.
type ViewService struct {
	// DB is the GORM handle used for the existence lookups.
	DB *gorm.DB
}

// NewViewService constructs a ViewService.
func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{DB: db}
}

// Resolve returns the favorite/cart flags of one recipe for viewerID.
// Anonymous viewers get {false, false} unconditionally, with no query.
func (s *ViewService) Resolve(ctx context.Context, viewerID, recipeID string) (RecipeFlags, error) {
	if viewerID == "" {
		return RecipeFlags{}, nil
	}
	fav, err := repo.FavoriteExists(ctx, s.DB, viewerID, recipeID)
	if err != nil {
		return RecipeFlags{}, err
	}
	cart, err := repo.CartEntryExists(ctx, s.DB, viewerID, recipeID)
	if err != nil {
		return RecipeFlags{}, err
	}
	return RecipeFlags{IsFavorited: fav, IsInCart: cart}, nil
}

// ResolveRecipes returns flags for many recipes in two queries. Recipe ids
// absent from the result map carry false flags. Anonymous viewers get an
// empty map without any query.
func (s *ViewService) ResolveRecipes(ctx context.Context, viewerID string, recipeIDs []string) (map[string]RecipeFlags, error) {
	out := make(map[string]RecipeFlags, len(recipeIDs))
	if viewerID == "" || len(recipeIDs) == 0 {
		return out, nil
	}

	favs, err := repo.FavoritedRecipeIDs(ctx, s.DB, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range favs {
		f := out[id]
		f.IsFavorited = true
		out[id] = f
	}

	carts, err := repo.CartRecipeIDs(ctx, s.DB, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range carts {
		f := out[id]
		f.IsInCart = true
		out[id] = f
	}
	return out, nil
}

// IsSubscribed reports whether viewerID follows authorID. Anonymous
// viewers get false without a query.
func (s *ViewService) IsSubscribed(ctx context.Context, viewerID, authorID string) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	return repo.SubscriptionExists(ctx, s.DB, viewerID, authorID)
}

// SubscribedAuthors returns, for a batch of author ids, which ones viewerID
// follows. Anonymous viewers get an empty map without a query.
func (s *ViewService) SubscribedAuthors(ctx context.Context, viewerID string, authorIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(authorIDs))
	if viewerID == "" || len(authorIDs) == 0 {
		return out, nil
	}
	ids, err := repo.SubscribedAuthorIDs(ctx, s.DB, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
