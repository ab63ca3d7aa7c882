// Package repository is the data-access layer: gorm for persistence, a
// redis read-through cache for the reference data the billing grid
// hammers, and change-event publication on every mutation.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"juicepos/internal/database/models"
	"juicepos/internal/notify"
)

const (
	menuItemsCacheKey  = "pos:menu-items"
	categoriesCacheKey = "pos:categories"

	cacheTTL = 30 * time.Minute
)

var ErrNotFound = errors.New("record not found")

// ErrDuplicate maps the postgres unique-violation on names.
var ErrDuplicate = errors.New("record already exists")

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation matches the pg 23505 SQLSTATE without depending on
// the driver's error type directly.
func isUniqueViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var st sqlState
	return errors.As(err, &st) && st.SQLState() == "23505"
}

type MenuRepository struct {
	db   *gorm.DB
	rdb  *redis.Client
	feed notify.Feed
}

func NewMenuRepository(db *gorm.DB, rdb *redis.Client, feed notify.Feed) *MenuRepository {
	return &MenuRepository{db: db, rdb: rdb, feed: feed}
}

// List returns every menu item ordered by name, served from cache when
// possible.
func (r *MenuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	if cached, err := r.rdb.Get(ctx, menuItemsCacheKey).Bytes(); err == nil {
		var items []models.MenuItem
		if json.Unmarshal(cached, &items) == nil {
			return items, nil
		}
	}

	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, translateError(err)
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := r.rdb.Set(ctx, menuItemsCacheKey, payload, cacheTTL).Err(); err != nil {
			log.Printf("menu cache set failed: %v", err)
		}
	}
	return items, nil
}

// ListActive filters List down to items shown on the billing grid.
func (r *MenuRepository) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	active := items[:0:0]
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func (r *MenuRepository) Get(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return translateError(err)
	}
	r.invalidate(ctx)
	return nil
}

// Update applies a partial column update; unknown ids surface as
// ErrNotFound.
func (r *MenuRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.MenuItem, error) {
	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	r.invalidate(ctx)
	return r.Get(ctx, id)
}

func (r *MenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *MenuRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Del(ctx, menuItemsCacheKey).Err(); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
	if err := r.feed.Publish(ctx, notify.TableMenuItems); err != nil {
		log.Printf("menu change publish failed: %v", err)
	}
}

// DropCaches is called by the change-feed listener when another writer
// announces a menu or category change.
func DropCaches(ctx context.Context, rdb *redis.Client, table string) {
	switch table {
	case notify.TableMenuItems:
		_ = rdb.Del(ctx, menuItemsCacheKey).Err()
	case notify.TableCategories:
		_ = rdb.Del(ctx, categoriesCacheKey).Err()
	}
}
