package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juicepos/internal/billing"
	"juicepos/internal/pricing"
	"juicepos/internal/reports"
	"juicepos/internal/repository"
)

type BillingHandler struct {
	service  *billing.Service
	menuRepo *repository.MenuRepository
}

func NewBillingHandler(service *billing.Service, menuRepo *repository.MenuRepository) *BillingHandler {
	return &BillingHandler{service: service, menuRepo: menuRepo}
}

type orderLineRequest struct {
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Quantity       int       `json:"quantity"`
	IsParcel       bool      `json:"is_parcel"`
	ParcelQuantity int       `json:"parcel_quantity"`
}

type createBillRequest struct {
	Lines            []orderLineRequest `json:"lines"`
	PaymentMethod    string             `json:"payment_method"`
	ApplyParcelToAll bool               `json:"apply_parcel_to_all"`
}

// Create finalizes a cart into an immutable bill. Unit prices are
// resolved server-side from the menu, never trusted from the client.
func (h *BillingHandler) Create(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if req.PaymentMethod != reports.PaymentMethodCash && req.PaymentMethod != reports.PaymentMethodUPI {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Payment method must be Cash or UPI",
		})
		return
	}

	if len(req.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Add items to the order first",
		})
		return
	}

	menuItems, err := h.menuRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load menu items: " + err.Error(),
		})
		return
	}
	byID := make(map[uuid.UUID]int, len(menuItems))
	for i, item := range menuItems {
		byID[item.ID] = i
	}

	cart := make(pricing.Cart, 0, len(req.Lines))
	for _, line := range req.Lines {
		idx, ok := byID[line.MenuItemID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Unknown menu item in order",
			})
			return
		}
		item := menuItems[idx]
		if !item.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("%q is not available for billing", item.Name),
			})
			return
		}
		cart = append(cart, pricing.Line{
			MenuItemID:     item.ID,
			Name:           item.Name,
			UnitPrice:      item.Price,
			Quantity:       line.Quantity,
			IsParcel:       line.IsParcel,
			ParcelQuantity: line.ParcelQuantity,
		})
	}

	bill, err := h.service.Finalize(c.Request.Context(), cart, req.PaymentMethod, req.ApplyParcelToAll)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Add items to the order first",
			})
		case errors.Is(err, billing.ErrInvalidLine):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Bill #%d generated successfully!", bill.BillNumber),
		"bill":    bill,
	})
}
