// Package pricing computes order-line and cart totals for the billing
// screen. Everything here is pure: no I/O, no clocks, no persistence.
// The flat per-unit parcel surcharge is passed in from configuration,
// never hardcoded.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one entry in the transient cart being assembled before
// finalization. ParcelQuantity is always kept within [0, Quantity].
type Line struct {
	MenuItemID     uuid.UUID       `json:"menu_item_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	IsParcel       bool            `json:"is_parcel"`
	ParcelQuantity int             `json:"parcel_quantity"`
}

type Cart []Line

type LineTotals struct {
	Subtotal           decimal.Decimal
	Parcel             decimal.Decimal
	Total              decimal.Decimal
	EffectiveParcelQty int
}

type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	ParcelCharges decimal.Decimal `json:"parcel_charges"`
	Total         decimal.Decimal `json:"total"`
}

// EffectiveParcelQty resolves the per-line parcel state against the
// global toggle: when the toggle is on, the whole line quantity is
// parcelled regardless of the stored per-line value.
func (l Line) EffectiveParcelQty(applyParcelToAll bool) int {
	qty := l.ParcelQuantity
	if applyParcelToAll {
		qty = l.Quantity
	}
	if qty < 0 {
		qty = 0
	}
	if qty > l.Quantity {
		qty = l.Quantity
	}
	return qty
}

func ComputeLineTotals(line Line, parcelCharge decimal.Decimal, applyParcelToAll bool) LineTotals {
	parcelQty := line.EffectiveParcelQty(applyParcelToAll)

	subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	parcel := parcelCharge.Mul(decimal.NewFromInt(int64(parcelQty)))

	return LineTotals{
		Subtotal:           subtotal,
		Parcel:             parcel,
		Total:              subtotal.Add(parcel),
		EffectiveParcelQty: parcelQty,
	}
}

// ComputeCartTotals folds ComputeLineTotals over the cart. An empty
// cart yields all zeros; rejecting it is the caller's job.
func ComputeCartTotals(cart Cart, parcelCharge decimal.Decimal, applyParcelToAll bool) Totals {
	subtotal := decimal.Zero
	parcelCharges := decimal.Zero

	for _, line := range cart {
		lt := ComputeLineTotals(line, parcelCharge, applyParcelToAll)
		subtotal = subtotal.Add(lt.Subtotal)
		parcelCharges = parcelCharges.Add(lt.Parcel)
	}

	return Totals{
		Subtotal:      subtotal,
		ParcelCharges: parcelCharges,
		Total:         subtotal.Add(parcelCharges),
	}
}

// -- Cart state transitions --

// AddItem increments the quantity of an existing line or appends a new
// line with quantity 1 and no parcel state.
func AddItem(cart Cart, menuItemID uuid.UUID, name string, unitPrice decimal.Decimal) Cart {
	for i, line := range cart {
		if line.MenuItemID == menuItemID {
			cart[i].Quantity++
			return cart
		}
	}
	return append(cart, Line{
		MenuItemID: menuItemID,
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   1,
	})
}

// UpdateQuantity adjusts a line's quantity by delta. Dropping to zero
// or below removes the line entirely; otherwise the parcel quantity is
// re-clamped so it never exceeds the new quantity. Unknown ids are a
// no-op.
func UpdateQuantity(cart Cart, menuItemID uuid.UUID, delta int) Cart {
	for i, line := range cart {
		if line.MenuItemID != menuItemID {
			continue
		}
		newQty := line.Quantity + delta
		if newQty <= 0 {
			return append(cart[:i], cart[i+1:]...)
		}
		cart[i].Quantity = newQty
		if cart[i].ParcelQuantity > newQty {
			cart[i].ParcelQuantity = newQty
		}
		return cart
	}
	return cart
}

func RemoveLine(cart Cart, menuItemID uuid.UUID) Cart {
	for i, line := range cart {
		if line.MenuItemID == menuItemID {
			return append(cart[:i], cart[i+1:]...)
		}
	}
	return cart
}

// ToggleLineParcel flips a line's parcel flag. Turning it on parcels
// the whole line; turning it off resets the parcel quantity. While the
// global toggle is active the per-line controls are disabled, so this
// is a no-op.
func ToggleLineParcel(cart Cart, menuItemID uuid.UUID, applyParcelToAll bool) Cart {
	if applyParcelToAll {
		return cart
	}
	for i, line := range cart {
		if line.MenuItemID != menuItemID {
			continue
		}
		if line.IsParcel {
			cart[i].IsParcel = false
			cart[i].ParcelQuantity = 0
		} else {
			cart[i].IsParcel = true
			cart[i].ParcelQuantity = line.Quantity
		}
		return cart
	}
	return cart
}

// SetLineParcelQuantity clamps qty into [0, line quantity] and derives
// the parcel flag from it. No-op while the global toggle is active.
func SetLineParcelQuantity(cart Cart, menuItemID uuid.UUID, qty int, applyParcelToAll bool) Cart {
	if applyParcelToAll {
		return cart
	}
	for i, line := range cart {
		if line.MenuItemID != menuItemID {
			continue
		}
		if qty < 0 {
			qty = 0
		}
		if qty > line.Quantity {
			qty = line.Quantity
		}
		cart[i].ParcelQuantity = qty
		cart[i].IsParcel = qty > 0
		return cart
	}
	return cart
}
