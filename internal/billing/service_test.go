package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juicepos/internal/database/models"
	"juicepos/internal/pricing"
)

type fakeStore struct {
	calls int
	err   error
	bill  *models.Bill
	items []models.BillItem
}

func (f *fakeStore) CreateBillWithItems(ctx context.Context, bill *models.Bill, items []models.BillItem) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	bill.BillNumber = 42
	f.bill = bill
	f.items = items
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFinalizeEmptyCart(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, dec("5"), 0)

	_, err := svc.Finalize(context.Background(), pricing.Cart{}, "Cash", false)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Zero(t, store.calls, "empty cart must not reach the store")
}

func TestFinalizeInvalidLines(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, dec("5"), 0)

	tests := []struct {
		name string
		line pricing.Line
	}{
		{name: "zero quantity", line: pricing.Line{MenuItemID: uuid.New(), Name: "Lime Soda", UnitPrice: dec("30")}},
		{name: "negative price", line: pricing.Line{MenuItemID: uuid.New(), Name: "Lime Soda", UnitPrice: dec("-1"), Quantity: 1}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := svc.Finalize(context.Background(), pricing.Cart{testCase.line}, "Cash", false)
			assert.ErrorIs(t, err, ErrInvalidLine)
			assert.Zero(t, store.calls)
		})
	}
}

func TestFinalizeTotalsAndSnapshots(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, dec("5"), 0)
	svc.now = func() time.Time {
		return time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	}

	itemID := uuid.New()
	cart := pricing.Cart{{
		MenuItemID: itemID, Name: "Orange Juice",
		UnitPrice: dec("50"), Quantity: 3,
		IsParcel: true, ParcelQuantity: 2,
	}}

	bill, err := svc.Finalize(context.Background(), cart, "UPI", false)
	require.NoError(t, err)
	require.NotNil(t, bill)

	assert.Equal(t, 42, bill.BillNumber)
	assert.Equal(t, "2025-01-15", bill.BusinessDate)
	assert.Equal(t, "UPI", bill.PaymentMethod)
	assert.True(t, dec("150").Equal(bill.Subtotal))
	assert.True(t, dec("10").Equal(bill.TotalParcelCollected))
	assert.True(t, dec("160").Equal(bill.TotalAmount))

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, itemID, item.MenuItemID)
	assert.True(t, dec("50").Equal(item.PricePerUnit))
	assert.True(t, dec("5").Equal(item.ParcelChargePerUnit), "parcel charge must be snapshotted")
	assert.Equal(t, 2, item.ParcelQuantity)
	assert.True(t, item.LineSubtotal.Add(item.ParcelTotal).Equal(item.LineTotal))
}

func TestFinalizeApplyParcelToAll(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, dec("5"), 0)

	cart := pricing.Cart{{
		MenuItemID: uuid.New(), Name: "Orange Juice",
		UnitPrice: dec("50"), Quantity: 3,
		IsParcel: false, ParcelQuantity: 0,
	}}

	bill, err := svc.Finalize(context.Background(), cart, "Cash", true)
	require.NoError(t, err)

	assert.True(t, bill.ApplyParcelToAll)
	assert.True(t, dec("15").Equal(bill.TotalParcelCollected))
	assert.True(t, dec("165").Equal(bill.TotalAmount))
	require.Len(t, store.items, 1)
	assert.True(t, store.items[0].IsParcel, "global toggle marks every item as parcel")
	assert.Equal(t, 3, store.items[0].ParcelQuantity)
}

func TestFinalizeStoreFailure(t *testing.T) {
	cause := errors.New("connection reset")
	store := &fakeStore{err: cause}
	svc := NewService(store, dec("5"), 0)

	cart := pricing.Cart{{MenuItemID: uuid.New(), Name: "Lime Soda", UnitPrice: dec("30"), Quantity: 1}}

	_, err := svc.Finalize(context.Background(), cart, "Cash", false)
	require.Error(t, err)

	var creationErr *CreationError
	assert.ErrorAs(t, err, &creationErr)
	assert.ErrorIs(t, err, cause)
}

func TestBusinessDate(t *testing.T) {
	tests := []struct {
		name        string
		t           time.Time
		cutoverHour int
		want        string
	}{
		{
			name: "midnight cutover keeps calendar date",
			t:    time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC),
			want: "2025-01-15",
		},
		{
			name:        "late-night sale before cutover belongs to previous day",
			t:           time.Date(2025, 1, 16, 1, 30, 0, 0, time.UTC),
			cutoverHour: 6,
			want:        "2025-01-15",
		},
		{
			name:        "sale after cutover belongs to the current day",
			t:           time.Date(2025, 1, 16, 7, 0, 0, 0, time.UTC),
			cutoverHour: 6,
			want:        "2025-01-16",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, BusinessDate(testCase.t, testCase.cutoverHour))
		})
	}
}
