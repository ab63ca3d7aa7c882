// Package handlers holds the gin HTTP handlers for the four POS
// screens: billing, menu management, dashboard and history.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"juicepos/internal/database/models"
	"juicepos/internal/repository"
)

type MenuHandler struct {
	repo *repository.MenuRepository
}

func NewMenuHandler(repo *repository.MenuRepository) *MenuHandler {
	return &MenuHandler{repo: repo}
}

type menuItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Color    *string         `json:"color"`
	ImageURL *string         `json:"image_url"`
	Category *string         `json:"category"`
}

func (h *MenuHandler) List(c *gin.Context) {
	var (
		items []models.MenuItem
		err   error
	)
	if c.Query("active") == "true" {
		items, err = h.repo.ListActive(c.Request.Context())
	} else {
		items, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load menu items: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"menu_items": items,
	})
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please enter a name",
		})
		return
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please enter a valid price greater than 0",
		})
		return
	}

	item := models.MenuItem{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: true,
		Color:    req.Color,
		ImageURL: req.ImageURL,
		Category: req.Category,
	}

	if err := h.repo.Create(c.Request.Context(), &item); err != nil {
		status, message := storeErrorResponse(err, "menu item")
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Menu item added successfully",
		"menu_item": item,
	})
}

type menuItemUpdateRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"is_active"`
	Color    *string          `json:"color"`
	ImageURL *string          `json:"image_url"`
	Category *string          `json:"category"`
}

func (h *MenuHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid menu item id",
		})
		return
	}

	var req menuItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Please enter a name",
			})
			return
		}
		updates["name"] = name
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Please enter a valid price greater than 0",
			})
			return
		}
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Nothing to update",
		})
		return
	}

	item, err := h.repo.Update(c.Request.Context(), id, updates)
	if err != nil {
		status, message := storeErrorResponse(err, "menu item")
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Menu item updated successfully",
		"menu_item": item,
	})
}

func (h *MenuHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid menu item id",
		})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		status, message := storeErrorResponse(err, "menu item")
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}

// storeErrorResponse maps repository errors onto HTTP responses. Local
// state is never mutated on failure, so the operator can simply retry.
func storeErrorResponse(err error, noun string) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, capitalize(noun) + " not found"
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, capitalize(noun) + " already exists"
	default:
		return http.StatusInternalServerError, "Failed to save " + noun + ": " + err.Error()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
