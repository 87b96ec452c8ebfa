package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edunzz/monedillo/models"
)

type Exporter interface {
	Export(ctx context.Context, desde, hasta *time.Time) ([]models.ExportedMovement, error)
}

// ExportHandler serves the password-gated read-only data feed.
type ExportHandler struct {
	Store      Exporter
	ExportPass string
}

func NewExportHandler(store Exporter, exportPass string) *ExportHandler {
	return &ExportHandler{Store: store, ExportPass: exportPass}
}

// Accepted date inputs, tried in order.
var exportDateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05"}

func parseExportDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range exportDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Export handles GET /exportar?clave=&desde=&hasta=. Both bounds are
// optional and inclusive; an omitted bound leaves that side of the window
// open.
func (h *ExportHandler) Export(c *gin.Context) {
	clave := c.Query("clave")
	if subtle.ConstantTimeCompare([]byte(clave), []byte(h.ExportPass)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
		return
	}

	desde, err := parseExportDate(c.Query("desde"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDateMessage})
		return
	}
	hasta, err := parseExportDate(c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDateMessage})
		return
	}

	movs, err := h.Store.Export(c.Request.Context(), desde, hasta)
	if err != nil {
		log.Printf("❌ Export query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export movements"})
		return
	}

	c.JSON(http.StatusOK, movs)
}

const invalidDateMessage = "Formato de fecha inválido. Usa YYYY-MM-DD o YYYY-MM-DDTHH:MM:SS"
