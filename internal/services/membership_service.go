// Package services – MembershipService
//
// This file implements the favorite and shopping-cart toggles. Both are
// (user, recipe) membership rows created and destroyed as a unit: the
// existence check and the insert run inside one transaction, and a unique
// constraint backstops races, mapped to the same conflict sentinel the
// pre-check produces.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// MembershipService manages favorites and cart entries.
type MembershipService struct {
	// DB is the database handle used for all membership operations.
	DB *gorm.DB
}

// NewMembershipService constructs a MembershipService.
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{DB: db}
}

// AddFavorite bookmarks recipeID for userID and returns the recipe for the
// short confirmation payload. Fails with ErrAlreadyFavorited on a duplicate
// pair and ErrRecipeNotFound when the recipe does not exist.
func (s *MembershipService) AddFavorite(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	return s.add(ctx, userID, recipeID,
		repo.FavoriteExists, repo.CreateFavorite, ErrAlreadyFavorited)
}

// RemoveFavorite deletes the bookmark. Fails with ErrNotFavorited when the
// pair does not exist.
func (s *MembershipService) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	if err := repo.DeleteFavorite(ctx, s.DB, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	return nil
}

// AddToCart puts recipeID into userID's shopping cart and returns the
// recipe for the short confirmation payload. Fails with ErrAlreadyInCart
// on a duplicate pair and ErrRecipeNotFound when the recipe does not exist.
func (s *MembershipService) AddToCart(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	return s.add(ctx, userID, recipeID,
		repo.CartEntryExists, repo.CreateCartEntry, ErrAlreadyInCart)
}

// RemoveFromCart deletes the cart entry. Fails with ErrNotInCart when the
// pair does not exist.
func (s *MembershipService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	if err := repo.DeleteCartEntry(ctx, s.DB, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInCart
		}
		return err
	}
	return nil
}

// add runs the shared membership insert atomically: conflict pre-check,
// recipe existence check, then the insert, with the unique index catching
// concurrent duplicates.
func (s *MembershipService) add(
	ctx context.Context,
	userID, recipeID string,
	exists func(context.Context, *gorm.DB, string, string) (bool, error),
	create func(context.Context, *gorm.DB, string, string) error,
	conflict error,
) (*domain.Recipe, error) {
	var recipe *domain.Recipe
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		present, err := exists(ctx, tx, userID, recipeID)
		if err != nil {
			return err
		}
		if present {
			return conflict
		}

		r, err := repo.GetRecipe(ctx, tx, recipeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		recipe = r

		if err := create(ctx, tx, userID, recipeID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return conflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
