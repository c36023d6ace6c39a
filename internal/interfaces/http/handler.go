package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"papelariabot/internal/infrastructure"
)

// Handler exposes the keep-alive surface and the pairing helpers. None of
// this is part of the conversational protocol.
type Handler struct {
	wa *infrastructure.WhatsAppClient
}

func NewHandler(wa *infrastructure.WhatsAppClient) *Handler {
	return &Handler{wa: wa}
}

// SetupRoutes registers all routes on r.
func SetupRoutes(r *gin.Engine, wa *infrastructure.WhatsAppClient) {
	h := NewHandler(wa)

	r.Use(SecurityHeaders())

	// Liveness probe for the hosting platform.
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	paired := r.Group("/")
	paired.Use(RateLimitPerIP(1, 5))
	{
		paired.GET("/qr", h.GetQRCode)
		paired.GET("/status", h.GetStatus)
	}
}

// GetQRCode renders the current pairing code as a PNG. 404 once paired.
func (h *Handler) GetQRCode(c *gin.Context) {
	code := h.wa.GetQR()
	if code == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pairing code available"})
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetStatus reports the transport connection state.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected": h.wa.IsConnected(),
		"pairing":   h.wa.GetQR() != "",
	})
}
