package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parcelCharge = decimal.NewFromInt(5)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineTotals(t *testing.T) {
	orangeJuice := uuid.New()

	tests := []struct {
		name             string
		line             Line
		applyParcelToAll bool
		wantSubtotal     string
		wantParcel       string
		wantTotal        string
		wantParcelQty    int
	}{
		{
			name: "partial parcel",
			line: Line{
				MenuItemID: orangeJuice, Name: "Orange Juice",
				UnitPrice: dec("50"), Quantity: 3,
				IsParcel: true, ParcelQuantity: 2,
			},
			wantSubtotal:  "150",
			wantParcel:    "10",
			wantTotal:     "160",
			wantParcelQty: 2,
		},
		{
			name: "global toggle overrides per-line parcel quantity",
			line: Line{
				MenuItemID: orangeJuice, Name: "Orange Juice",
				UnitPrice: dec("50"), Quantity: 3,
				IsParcel: true, ParcelQuantity: 2,
			},
			applyParcelToAll: true,
			wantSubtotal:     "150",
			wantParcel:       "15",
			wantTotal:        "165",
			wantParcelQty:    3,
		},
		{
			name: "no parcel",
			line: Line{
				MenuItemID: orangeJuice,
				UnitPrice:  dec("40"), Quantity: 2,
			},
			wantSubtotal:  "80",
			wantParcel:    "0",
			wantTotal:     "80",
			wantParcelQty: 0,
		},
		{
			name: "parcel quantity above line quantity is clamped",
			line: Line{
				MenuItemID: orangeJuice,
				UnitPrice:  dec("60"), Quantity: 1,
				IsParcel: true, ParcelQuantity: 4,
			},
			wantSubtotal:  "60",
			wantParcel:    "5",
			wantTotal:     "65",
			wantParcelQty: 1,
		},
		{
			name: "negative parcel quantity is clamped to zero",
			line: Line{
				MenuItemID: orangeJuice,
				UnitPrice:  dec("60"), Quantity: 2,
				ParcelQuantity: -1,
			},
			wantSubtotal:  "120",
			wantParcel:    "0",
			wantTotal:     "120",
			wantParcelQty: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := ComputeLineTotals(testCase.line, parcelCharge, testCase.applyParcelToAll)

			assert.True(t, dec(testCase.wantSubtotal).Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
			assert.True(t, dec(testCase.wantParcel).Equal(got.Parcel), "parcel: got %s", got.Parcel)
			assert.True(t, dec(testCase.wantTotal).Equal(got.Total), "total: got %s", got.Total)
			assert.Equal(t, testCase.wantParcelQty, got.EffectiveParcelQty)

			assert.GreaterOrEqual(t, got.EffectiveParcelQty, 0)
			assert.LessOrEqual(t, got.EffectiveParcelQty, testCase.line.Quantity)
			assert.False(t, got.Total.IsNegative())
		})
	}
}

func TestComputeCartTotals(t *testing.T) {
	t.Run("empty cart is all zeros", func(t *testing.T) {
		got := ComputeCartTotals(Cart{}, parcelCharge, false)
		assert.True(t, got.Subtotal.IsZero())
		assert.True(t, got.ParcelCharges.IsZero())
		assert.True(t, got.Total.IsZero())
	})

	t.Run("two lines with mixed parcel state", func(t *testing.T) {
		cart := Cart{
			{MenuItemID: uuid.New(), UnitPrice: dec("40"), Quantity: 2},
			{MenuItemID: uuid.New(), UnitPrice: dec("60"), Quantity: 1, IsParcel: true, ParcelQuantity: 1},
		}

		got := ComputeCartTotals(cart, parcelCharge, false)
		assert.True(t, dec("140").Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
		assert.True(t, dec("5").Equal(got.ParcelCharges), "parcel: got %s", got.ParcelCharges)
		assert.True(t, dec("145").Equal(got.Total), "total: got %s", got.Total)
	})

	t.Run("total is the sum of line totals", func(t *testing.T) {
		cart := Cart{
			{MenuItemID: uuid.New(), UnitPrice: dec("12.50"), Quantity: 3, IsParcel: true, ParcelQuantity: 2},
			{MenuItemID: uuid.New(), UnitPrice: dec("99.99"), Quantity: 1},
			{MenuItemID: uuid.New(), UnitPrice: dec("7"), Quantity: 5, IsParcel: true, ParcelQuantity: 5},
		}

		for _, applyAll := range []bool{false, true} {
			got := ComputeCartTotals(cart, parcelCharge, applyAll)

			sum := decimal.Zero
			for _, line := range cart {
				sum = sum.Add(ComputeLineTotals(line, parcelCharge, applyAll).Total)
			}
			assert.True(t, sum.Equal(got.Total))
			assert.True(t, got.Subtotal.Add(got.ParcelCharges).Equal(got.Total))
			assert.True(t, got.Total.GreaterThanOrEqual(got.Subtotal))
		}
	})
}

func TestAddItem(t *testing.T) {
	id := uuid.New()

	cart := AddItem(Cart{}, id, "Mango Smoothie", dec("80"))
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.False(t, cart[0].IsParcel)

	cart = AddItem(cart, id, "Mango Smoothie", dec("80"))
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)

	other := uuid.New()
	cart = AddItem(cart, other, "Lime Soda", dec("30"))
	require.Len(t, cart, 2)
}

func TestUpdateQuantity(t *testing.T) {
	id := uuid.New()

	t.Run("reducing below parcel quantity re-clamps it", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 3, IsParcel: true, ParcelQuantity: 3}}

		cart = UpdateQuantity(cart, id, -1)
		require.Len(t, cart, 1)
		assert.Equal(t, 2, cart[0].Quantity)
		assert.Equal(t, 2, cart[0].ParcelQuantity)
	})

	t.Run("reducing to zero removes the line", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 1}}

		cart = UpdateQuantity(cart, id, -1)
		assert.Empty(t, cart)
	})

	t.Run("large negative delta removes the line", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 2}}

		cart = UpdateQuantity(cart, id, -5)
		assert.Empty(t, cart)
	})

	t.Run("increment keeps parcel quantity untouched", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 2, IsParcel: true, ParcelQuantity: 1}}

		cart = UpdateQuantity(cart, id, 1)
		require.Len(t, cart, 1)
		assert.Equal(t, 3, cart[0].Quantity)
		assert.Equal(t, 1, cart[0].ParcelQuantity)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 2}}

		cart = UpdateQuantity(cart, uuid.New(), -1)
		require.Len(t, cart, 1)
		assert.Equal(t, 2, cart[0].Quantity)
	})
}

func TestToggleLineParcel(t *testing.T) {
	id := uuid.New()

	t.Run("toggle on parcels the whole line", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 4}}

		cart = ToggleLineParcel(cart, id, false)
		assert.True(t, cart[0].IsParcel)
		assert.Equal(t, 4, cart[0].ParcelQuantity)
	})

	t.Run("toggle off resets parcel quantity", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 4, IsParcel: true, ParcelQuantity: 2}}

		cart = ToggleLineParcel(cart, id, false)
		assert.False(t, cart[0].IsParcel)
		assert.Equal(t, 0, cart[0].ParcelQuantity)
	})

	t.Run("no-op while global toggle is active", func(t *testing.T) {
		cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 4}}

		cart = ToggleLineParcel(cart, id, true)
		assert.False(t, cart[0].IsParcel)
		assert.Equal(t, 0, cart[0].ParcelQuantity)
	})
}

func TestSetLineParcelQuantity(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name             string
		qty              int
		applyParcelToAll bool
		wantQty          int
		wantIsParcel     bool
	}{
		{name: "within range", qty: 2, wantQty: 2, wantIsParcel: true},
		{name: "clamped to line quantity", qty: 9, wantQty: 3, wantIsParcel: true},
		{name: "negative clamps to zero and clears flag", qty: -1, wantQty: 0, wantIsParcel: false},
		{name: "zero clears flag", qty: 0, wantQty: 0, wantIsParcel: false},
		{name: "no-op while global toggle active", qty: 2, applyParcelToAll: true, wantQty: 1, wantIsParcel: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			cart := Cart{{MenuItemID: id, UnitPrice: dec("50"), Quantity: 3, IsParcel: true, ParcelQuantity: 1}}

			cart = SetLineParcelQuantity(cart, id, testCase.qty, testCase.applyParcelToAll)
			assert.Equal(t, testCase.wantQty, cart[0].ParcelQuantity)
			assert.Equal(t, testCase.wantIsParcel, cart[0].IsParcel)
		})
	}
}

func TestRemoveLine(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	cart := Cart{
		{MenuItemID: first, UnitPrice: dec("40"), Quantity: 1},
		{MenuItemID: second, UnitPrice: dec("60"), Quantity: 2},
	}

	cart = RemoveLine(cart, first)
	require.Len(t, cart, 1)
	assert.Equal(t, second, cart[0].MenuItemID)

	cart = RemoveLine(cart, uuid.New())
	require.Len(t, cart, 1)
}
