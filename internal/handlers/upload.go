package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"juicepos/internal/storage"
)

type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// MenuImage accepts one multipart image and returns its public URL for
// use as a menu item's image_url.
func (h *UploadHandler) MenuImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "An image file is required",
		})
		return
	}

	url, err := h.uploader.UploadMenuImage(c.Request.Context(), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrImageTooLarge), errors.Is(err, storage.ErrNotAnImage):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to upload image: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"image_url": url,
	})
}
