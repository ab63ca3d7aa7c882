package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juicepos/internal/billing"
	"juicepos/internal/reports"
	"juicepos/internal/repository"
)

const trendWindowDays = 30

// DashboardHandler assembles every data series the dashboard screen
// charts: KPI stats, the hourly histogram, top sellers, the rolling
// trend and the payment split. Rendering stays in the client.
type DashboardHandler struct {
	billRepo    *repository.BillRepository
	menuRepo    *repository.MenuRepository
	cutoverHour int
}

func NewDashboardHandler(billRepo *repository.BillRepository, menuRepo *repository.MenuRepository, cutoverHour int) *DashboardHandler {
	return &DashboardHandler{billRepo: billRepo, menuRepo: menuRepo, cutoverHour: cutoverHour}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	today := billing.BusinessDate(now, h.cutoverHour)

	todayBills, err := h.billRepo.ForBusinessDate(ctx, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load today's bills: " + err.Error(),
		})
		return
	}

	todayItems, err := h.billRepo.ItemsForBusinessDate(ctx, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load today's bill items: " + err.Error(),
		})
		return
	}

	windowStart := billing.BusinessDate(now.AddDate(0, 0, -trendWindowDays), h.cutoverHour)
	trendBills, err := h.billRepo.Since(ctx, windowStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load trend bills: " + err.Error(),
		})
		return
	}

	menuItems, err := h.menuRepo.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load menu items: " + err.Error(),
		})
		return
	}
	names := make(map[uuid.UUID]string, len(menuItems))
	for _, item := range menuItems {
		names[item.ID] = item.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"business_date": today,
		"stats":         reports.ComputeStats(todayBills),
		"hourly_sales":  reports.HourlyHistogram(todayBills),
		"top_items":     reports.TopItems(todayItems, names, reports.DefaultTopItems),
		"daily_trend":   reports.DailyTrend(trendBills),
		"payment_split": reports.PaymentSplit(todayBills),
	})
}
