// Package services – SubscriptionService
//
// This file implements the subscription engine: following and unfollowing
// authors, plus the subscription listing with its recipe preview. The
// preview list is truncated to the requested limit but the recipe count
// never is; the count always reflects the author's full catalogue. That
// asymmetry is deliberate and load-bearing for clients ("3 of 17 recipes").
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// SubscriptionView is the read model for one followed author: the author's
// profile, a truncated recipe preview, and the untruncated recipe count.
type SubscriptionView struct {
	Author      domain.User
	Recipes     []domain.Recipe
	RecipeCount int64
}

// SubscriptionService manages (subscriber, author) follow records.
type SubscriptionService struct {
	// DB is the database handle used for all subscription operations.
	DB *gorm.DB
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{DB: db}
}

// Subscribe creates a follow record from subscriberID to authorID and
// returns the resulting subscription view (preview truncated to
// recipeLimit when > 0).
//
// Semantics:
//   - subscriberID == authorID → ErrSelfSubscription.
//   - unknown author → ErrUserNotFound.
//   - existing pair → ErrAlreadySubscribed (pre-check plus unique-index
//     backstop inside the transaction).
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID string, recipeLimit int) (*SubscriptionView, error) {
	if subscriberID == authorID {
		return nil, ErrSelfSubscription
	}

	var author *domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := repo.GetUser(ctx, tx, authorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		author = u

		present, err := repo.SubscriptionExists(ctx, tx, subscriberID, authorID)
		if err != nil {
			return err
		}
		if present {
			return ErrAlreadySubscribed
		}

		if _, err := repo.CreateSubscription(ctx, tx, subscriberID, authorID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrAlreadySubscribed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, *author, recipeLimit)
}

// Unsubscribe removes the follow record. Unknown authors yield
// ErrUserNotFound; a missing pair yields ErrNotSubscribed.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	if _, err := repo.GetUser(ctx, s.DB, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := repo.DeleteSubscription(ctx, s.DB, subscriberID, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

// List returns a page of subscriberID's followed authors as subscription
// views, plus the total follow count. Each view's preview is truncated to
// recipeLimit when > 0; RecipeCount is always the full count.
func (s *SubscriptionService) List(ctx context.Context, subscriberID string, recipeLimit, page, pageSize int) ([]SubscriptionView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountSubscriptions(ctx, s.DB, subscriberID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []SubscriptionView{}, 0, nil
	}

	subs, err := repo.ListSubscriptionsPage(ctx, s.DB, subscriberID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		v, err := s.buildView(ctx, sub.Author, recipeLimit)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// buildView assembles one author's view: truncated preview, full count.
func (s *SubscriptionService) buildView(ctx context.Context, author domain.User, recipeLimit int) (*SubscriptionView, error) {
	recipes, err := repo.ListRecipesByAuthor(ctx, s.DB, author.ID, recipeLimit)
	if err != nil {
		return nil, err
	}
	count, err := repo.CountRecipesByAuthor(ctx, s.DB, author.ID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionView{Author: author, Recipes: recipes, RecipeCount: count}, nil
}
