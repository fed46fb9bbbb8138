// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides lookups for the shared reference data:
// tags, ingredients, and users. All three are read-only from the core's
// point of view (tags are admin-managed, ingredients are immutable, users
// belong to the external identity provider).
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ListTags returns all tags ordered by name.
func ListTags(ctx context.Context, db *gorm.DB) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

// GetTag fetches a tag by ID, or ErrNotFound.
func GetTag(ctx context.Context, db *gorm.DB, id string) (*domain.Tag, error) {
	var t domain.Tag
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTagsByID fetches the tags for the given ids, in no particular order.
// Missing ids simply yield a shorter slice; the caller decides whether that
// is an error.
func GetTagsByID(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// SearchIngredients returns ingredients whose name starts with prefix,
// case-insensitively, ordered by name. An empty prefix returns the full
// reference list.
func SearchIngredients(ctx context.Context, db *gorm.DB, prefix string) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	q := db.WithContext(ctx).Order("name")
	if p := strings.TrimSpace(prefix); p != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(p)+"%")
	}
	err := q.Find(&out).Error
	return out, err
}

// GetIngredient fetches an ingredient by ID, or ErrNotFound.
func GetIngredient(ctx context.Context, db *gorm.DB, id string) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := db.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// CountIngredientsByID returns how many of the given ingredient ids exist.
// The composition engine uses it to reject lines referencing unknown
// ingredients without loading the rows.
func CountIngredientsByID(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Ingredient{}).
		Where("id IN ?", ids).
		Count(&total).Error
	return total, err
}

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsersPage returns a page of users ordered by username.
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("username").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}
