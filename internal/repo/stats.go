// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (ETag generation) on the reference
// data endpoints. Tags and ingredients change rarely, so a cheap
// count + latest-update pair lets clients cache the full lists.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// TagsStats returns the total number of tags and the maximum UpdatedAt
// among them. When there are no tags, count is 0 and maxUpdatedAt is nil.
func TagsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	return tableStats(db.WithContext(ctx).Model(&domain.Tag{}))
}

// IngredientsStats returns the total number of ingredients and the maximum
// UpdatedAt among them. When there are none, count is 0 and maxUpdatedAt
// is nil.
func IngredientsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	return tableStats(db.WithContext(ctx).Model(&domain.Ingredient{}))
}

// tableStats runs the shared count + latest-updated_at pair of queries.
func tableStats(q *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
