// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file covers the per-user membership rows: favorites,
// cart entries, and subscriptions. Each is a bare (user, recipe) or
// (subscriber, author) pair guarded by a composite unique index; duplicate
// inserts surface the raw constraint error for the service layer to map.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// FavoriteExists reports whether userID has favorited recipeID.
func FavoriteExists(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// CreateFavorite inserts a favorite row for (userID, recipeID).
func CreateFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	f := &domain.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(f).Error
}

// DeleteFavorite removes the favorite row for (userID, recipeID).
// Returns ErrNotFound when no such row exists.
func DeleteFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FavoritedRecipeIDs returns, among recipeIDs, the ids userID has favorited.
// Used to annotate list responses in one query instead of per item.
func FavoritedRecipeIDs(ctx context.Context, db *gorm.DB, userID string, recipeIDs []string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &out).Error
	return out, err
}

// CartEntryExists reports whether recipeID is in userID's shopping cart.
func CartEntryExists(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.CartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// CreateCartEntry inserts a cart row for (userID, recipeID).
func CreateCartEntry(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	e := &domain.CartEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(e).Error
}

// DeleteCartEntry removes the cart row for (userID, recipeID).
// Returns ErrNotFound when no such row exists.
func DeleteCartEntry(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.CartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CartRecipeIDs returns, among recipeIDs, the ids present in userID's cart.
func CartRecipeIDs(ctx context.Context, db *gorm.DB, userID string, recipeIDs []string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.CartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &out).Error
	return out, err
}

// CountCartEntries returns the number of recipes in userID's cart.
func CountCartEntries(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.CartEntry{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

// SubscriptionExists reports whether subscriberID follows authorID.
func SubscriptionExists(ctx context.Context, db *gorm.DB, subscriberID, authorID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&n).Error
	return n > 0, err
}

// CreateSubscription inserts a follow row for (subscriberID, authorID).
func CreateSubscription(ctx context.Context, db *gorm.DB, subscriberID, authorID string) (*domain.Subscription, error) {
	s := &domain.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		AuthorID:     authorID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// DeleteSubscription removes the follow row for (subscriberID, authorID).
// Returns ErrNotFound when no such row exists.
func DeleteSubscription(ctx context.Context, db *gorm.DB, subscriberID, authorID string) error {
	res := db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSubscriptionsPage returns a page of subscriberID's follow rows with
// the author preloaded, oldest first (stable order for pagination).
func ListSubscriptionsPage(ctx context.Context, db *gorm.DB, subscriberID string, offset, limit int) ([]domain.Subscription, error) {
	var out []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Author").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountSubscriptions returns how many authors subscriberID follows.
func CountSubscriptions(ctx context.Context, db *gorm.DB, subscriberID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&n).Error
	return n, err
}

// SubscribedAuthorIDs returns, among authorIDs, the ids subscriberID follows.
func SubscribedAuthorIDs(ctx context.Context, db *gorm.DB, subscriberID string, authorIDs []string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &out).Error
	return out, err
}
