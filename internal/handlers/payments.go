package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"juicepos/config"
)

// PaymentsHandler renders UPI payment QR codes so the counter display
// can show a scannable code for the exact bill amount.
type PaymentsHandler struct {
	upi config.UPIConfig
}

func NewPaymentsHandler(upi config.UPIConfig) *PaymentsHandler {
	return &PaymentsHandler{upi: upi}
}

func (h *PaymentsHandler) UPIQR(c *gin.Context) {
	if h.upi.PayeeVPA == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "UPI payments are not configured",
		})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Amount must be a positive number",
		})
		return
	}

	params := url.Values{}
	params.Set("pa", h.upi.PayeeVPA)
	params.Set("pn", h.upi.PayeeName)
	params.Set("am", amount.StringFixed(2))
	params.Set("cu", "INR")
	uri := "upi://pay?" + params.Encode()

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to generate QR code: " + err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
