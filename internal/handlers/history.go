package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juicepos/internal/billing"
	"juicepos/internal/database/models"
	"juicepos/internal/repository"
)

// HistoryHandler serves the transaction-history screen: bills filtered
// by day, by month, or unfiltered, plus the line items of one bill.
type HistoryHandler struct {
	billRepo    *repository.BillRepository
	cutoverHour int
}

func NewHistoryHandler(billRepo *repository.BillRepository, cutoverHour int) *HistoryHandler {
	return &HistoryHandler{billRepo: billRepo, cutoverHour: cutoverHour}
}

func (h *HistoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		bills []models.Bill
		err   error
	)

	switch c.DefaultQuery("filter", "day") {
	case "day":
		date := c.Query("date")
		if date == "" {
			date = billing.BusinessDate(time.Now(), h.cutoverHour)
		} else if _, parseErr := time.Parse("2006-01-02", date); parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Date must be in YYYY-MM-DD format",
			})
			return
		}
		bills, err = h.billRepo.ForBusinessDate(ctx, date)

	case "month":
		month := c.Query("month")
		start, parseErr := time.Parse("2006-01", month)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Month must be in YYYY-MM format",
			})
			return
		}
		end := start.AddDate(0, 1, -1)
		bills, err = h.billRepo.ForBusinessDateRange(ctx,
			start.Format("2006-01-02"), end.Format("2006-01-02"))

	case "all":
		bills, err = h.billRepo.All(ctx)

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Filter must be one of day, month, all",
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load bills: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bills":   bills,
	})
}

func (h *HistoryHandler) Items(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid bill id",
		})
		return
	}

	items, err := h.billRepo.ItemsForBill(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load bill items: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
	})
}
