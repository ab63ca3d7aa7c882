package repository

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"juicepos/internal/database/models"
	"juicepos/internal/notify"
)

// BillRepository reads and creates bills. Bills are immutable, so
// there are no update or delete paths and no cache layer: dashboards
// refetch on change events instead.
type BillRepository struct {
	db   *gorm.DB
	feed notify.Feed
}

func NewBillRepository(db *gorm.DB, feed notify.Feed) *BillRepository {
	return &BillRepository{db: db, feed: feed}
}

// CreateBillWithItems persists the bill and all its items in a single
// transaction, allocating the sequential bill number from the database
// sequence. Either everything lands or nothing does.
func (r *BillRepository) CreateBillWithItems(ctx context.Context, bill *models.Bill, items []models.BillItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Raw("SELECT nextval('bill_number_seq')").Scan(&next).Error; err != nil {
			return err
		}
		bill.BillNumber = next

		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].BillID = bill.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return translateError(err)
	}

	if err := r.feed.Publish(ctx, notify.TableBills); err != nil {
		log.Printf("bill change publish failed: %v", err)
	}
	if err := r.feed.Publish(ctx, notify.TableBillItems); err != nil {
		log.Printf("bill item change publish failed: %v", err)
	}
	return nil
}

// ForBusinessDate returns a single business day's bills, newest first.
func (r *BillRepository) ForBusinessDate(ctx context.Context, businessDate string) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("business_date = ?", businessDate).
		Order("date_time DESC").
		Find(&bills).Error
	if err != nil {
		return nil, translateError(err)
	}
	return bills, nil
}

// ForBusinessDateRange returns bills between two business dates
// inclusive, newest first.
func (r *BillRepository) ForBusinessDateRange(ctx context.Context, start, end string) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("business_date >= ? AND business_date <= ?", start, end).
		Order("date_time DESC").
		Find(&bills).Error
	if err != nil {
		return nil, translateError(err)
	}
	return bills, nil
}

// Since returns bills on or after the given business date, ascending
// by business date, for the rolling trend.
func (r *BillRepository) Since(ctx context.Context, businessDate string) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("business_date >= ?", businessDate).
		Order("business_date").
		Find(&bills).Error
	if err != nil {
		return nil, translateError(err)
	}
	return bills, nil
}

func (r *BillRepository) All(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Order("date_time DESC").
		Find(&bills).Error
	if err != nil {
		return nil, translateError(err)
	}
	return bills, nil
}

func (r *BillRepository) ItemsForBill(ctx context.Context, billID uuid.UUID) ([]models.BillItem, error) {
	var items []models.BillItem
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// ItemsForBusinessDate joins bill items to their owning bills for one
// business day, feeding the top-sellers aggregation.
func (r *BillRepository) ItemsForBusinessDate(ctx context.Context, businessDate string) ([]models.BillItem, error) {
	var items []models.BillItem
	err := r.db.WithContext(ctx).
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.business_date = ?", businessDate).
		Find(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}
