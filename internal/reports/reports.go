// Package reports derives read-only dashboard summaries from already
// fetched bill rows. No new pricing rules live here, only groupings.
package reports

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"juicepos/internal/database/models"
)

const (
	PaymentMethodCash = "Cash"
	PaymentMethodUPI  = "UPI"

	DefaultTopItems = 5
)

type Stats struct {
	SalesToday             decimal.Decimal `json:"sales_today"`
	OrdersToday            int             `json:"orders_today"`
	ParcelChargesCollected decimal.Decimal `json:"parcel_charges_collected"`
	AverageBillValue       decimal.Decimal `json:"average_bill_value"`
	CashTotal              decimal.Decimal `json:"cash_total"`
	UPITotal               decimal.Decimal `json:"upi_total"`
}

type HourlyBucket struct {
	Hour  int             `json:"hour"`
	Sales decimal.Decimal `json:"sales"`
}

type ItemSales struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
}

type TrendPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type PaymentShare struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
}

// ComputeStats summarizes one business day's bills.
func ComputeStats(bills []models.Bill) Stats {
	stats := Stats{
		SalesToday:             decimal.Zero,
		ParcelChargesCollected: decimal.Zero,
		AverageBillValue:       decimal.Zero,
		CashTotal:              decimal.Zero,
		UPITotal:               decimal.Zero,
	}

	for _, bill := range bills {
		stats.SalesToday = stats.SalesToday.Add(bill.TotalAmount)
		stats.ParcelChargesCollected = stats.ParcelChargesCollected.Add(bill.TotalParcelCollected)
		switch bill.PaymentMethod {
		case PaymentMethodCash:
			stats.CashTotal = stats.CashTotal.Add(bill.TotalAmount)
		case PaymentMethodUPI:
			stats.UPITotal = stats.UPITotal.Add(bill.TotalAmount)
		}
	}

	stats.OrdersToday = len(bills)
	if stats.OrdersToday > 0 {
		stats.AverageBillValue = stats.SalesToday.
			Div(decimal.NewFromInt(int64(stats.OrdersToday))).
			Round(2)
	}
	return stats
}

// HourlyHistogram buckets bills by the hour component of DateTime into
// 24 buckets.
func HourlyHistogram(bills []models.Bill) []HourlyBucket {
	buckets := make([]HourlyBucket, 24)
	for hour := range buckets {
		buckets[hour] = HourlyBucket{Hour: hour, Sales: decimal.Zero}
	}
	for _, bill := range bills {
		hour := bill.DateTime.Hour()
		buckets[hour].Sales = buckets[hour].Sales.Add(bill.TotalAmount)
	}
	return buckets
}

// TopItems sums sold quantities per menu item, resolves display names,
// and returns the n best sellers in descending order. The sort is
// stable so ties keep their first-encountered order.
func TopItems(items []models.BillItem, names map[uuid.UUID]string, n int) []ItemSales {
	if n <= 0 {
		n = DefaultTopItems
	}

	totals := make(map[uuid.UUID]int)
	var order []uuid.UUID
	for _, item := range items {
		if _, seen := totals[item.MenuItemID]; !seen {
			order = append(order, item.MenuItemID)
		}
		totals[item.MenuItemID] += item.Quantity
	}

	ranked := make([]ItemSales, 0, len(order))
	for _, id := range order {
		name, ok := names[id]
		if !ok {
			// Menu item was hard-deleted; skip it rather than show a blank row.
			continue
		}
		ranked = append(ranked, ItemSales{MenuItemID: id, Name: name, Quantity: totals[id]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DailyTrend sums totals per business date, ascending by date. The
// caller bounds the input to the trailing window it wants.
func DailyTrend(bills []models.Bill) []TrendPoint {
	totals := make(map[string]decimal.Decimal)
	for _, bill := range bills {
		current, ok := totals[bill.BusinessDate]
		if !ok {
			current = decimal.Zero
		}
		totals[bill.BusinessDate] = current.Add(bill.TotalAmount)
	}

	points := make([]TrendPoint, 0, len(totals))
	for date, total := range totals {
		points = append(points, TrendPoint{Date: date, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// PaymentSplit groups totals by payment method, omitting zero groups.
func PaymentSplit(bills []models.Bill) []PaymentShare {
	stats := ComputeStats(bills)

	var shares []PaymentShare
	if stats.CashTotal.IsPositive() {
		shares = append(shares, PaymentShare{Method: PaymentMethodCash, Total: stats.CashTotal})
	}
	if stats.UPITotal.IsPositive() {
		shares = append(shares, PaymentShare{Method: PaymentMethodUPI, Total: stats.UPITotal})
	}
	return shares
}
