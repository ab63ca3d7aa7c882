// Package billing converts a cart snapshot into an immutable persisted
// bill with its line items.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"juicepos/internal/database/models"
	"juicepos/internal/pricing"
)

var (
	// ErrEmptyOrder is returned before any store call when the cart has
	// no lines. Callers must surface it, not swallow it.
	ErrEmptyOrder = errors.New("order has no items")

	ErrInvalidLine = errors.New("order line is invalid")
)

// CreationError wraps a store failure during finalization. The cart is
// left untouched by the caller so the user can retry.
type CreationError struct {
	cause error
}

func (e *CreationError) Error() string {
	return "failed to create bill: " + e.cause.Error()
}

func (e *CreationError) Unwrap() error {
	return e.cause
}

// Store persists a bill and its items as one atomic unit and assigns
// the sequential bill number.
type Store interface {
	CreateBillWithItems(ctx context.Context, bill *models.Bill, items []models.BillItem) error
}

type Service struct {
	store        Store
	parcelCharge decimal.Decimal
	cutoverHour  int
	now          func() time.Time
}

func NewService(store Store, parcelCharge decimal.Decimal, cutoverHour int) *Service {
	return &Service{
		store:        store,
		parcelCharge: parcelCharge,
		cutoverHour:  cutoverHour,
		now:          time.Now,
	}
}

// BusinessDate buckets a timestamp into the business day it belongs
// to. Sales before the cutover hour count toward the previous day, so
// a late-night order at 01:00 with a 06:00 cutover lands on yesterday.
func BusinessDate(t time.Time, cutoverHour int) string {
	return t.Add(-time.Duration(cutoverHour) * time.Hour).Format("2006-01-02")
}

// Finalize prices the cart, snapshots per-unit price and parcel charge
// into each bill item, and persists bill plus items in one transaction.
// On success the caller clears the cart and resets the parcel toggle.
func (s *Service) Finalize(ctx context.Context, cart pricing.Cart, paymentMethod string, applyParcelToAll bool) (*models.Bill, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %q has non-positive quantity", ErrInvalidLine, line.Name)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: %q has negative unit price", ErrInvalidLine, line.Name)
		}
	}

	totals := pricing.ComputeCartTotals(cart, s.parcelCharge, applyParcelToAll)

	now := s.now()
	bill := &models.Bill{
		DateTime:             now,
		BusinessDate:         BusinessDate(now, s.cutoverHour),
		Subtotal:             totals.Subtotal,
		TotalParcelCollected: totals.ParcelCharges,
		TotalAmount:          totals.Total,
		PaymentMethod:        paymentMethod,
		ApplyParcelToAll:     applyParcelToAll,
	}

	items := make([]models.BillItem, 0, len(cart))
	for _, line := range cart {
		lt := pricing.ComputeLineTotals(line, s.parcelCharge, applyParcelToAll)
		items = append(items, models.BillItem{
			MenuItemID:          line.MenuItemID,
			Quantity:            line.Quantity,
			PricePerUnit:        line.UnitPrice,
			LineSubtotal:        lt.Subtotal,
			IsParcel:            applyParcelToAll || line.IsParcel,
			ParcelQuantity:      lt.EffectiveParcelQty,
			ParcelChargePerUnit: s.parcelCharge,
			ParcelTotal:         lt.Parcel,
			LineTotal:           lt.Total,
		})
	}

	if err := s.store.CreateBillWithItems(ctx, bill, items); err != nil {
		return nil, &CreationError{cause: err}
	}
	return bill, nil
}
