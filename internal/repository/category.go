package repository

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"juicepos/internal/database/models"
	"juicepos/internal/notify"
)

type CategoryRepository struct {
	db   *gorm.DB
	rdb  *redis.Client
	feed notify.Feed
}

func NewCategoryRepository(db *gorm.DB, rdb *redis.Client, feed notify.Feed) *CategoryRepository {
	return &CategoryRepository{db: db, rdb: rdb, feed: feed}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if cached, err := r.rdb.Get(ctx, categoriesCacheKey).Bytes(); err == nil {
		var categories []models.Category
		if json.Unmarshal(cached, &categories) == nil {
			return categories, nil
		}
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("display_order").Find(&categories).Error; err != nil {
		return nil, translateError(err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		if err := r.rdb.Set(ctx, categoriesCacheKey, payload, cacheTTL).Err(); err != nil {
			log.Printf("category cache set failed: %v", err)
		}
	}
	return categories, nil
}

// Create appends the new category after the current highest display
// order. Duplicate names surface as ErrDuplicate.
func (r *CategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&models.Category{}).
			Select("COALESCE(MAX(display_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		category.DisplayOrder = maxOrder + 1
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, translateError(err)
	}

	r.invalidate(ctx)
	return &category, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	r.invalidate(ctx)

	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// Delete removes the category only. Menu items keep their label and
// render as uncategorized.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *CategoryRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Del(ctx, categoriesCacheKey).Err(); err != nil {
		log.Printf("category cache invalidation failed: %v", err)
	}
	if err := r.feed.Publish(ctx, notify.TableCategories); err != nil {
		log.Printf("category change publish failed: %v", err)
	}
}
