// server/internal/api/handlers/health_handler.go
package handlers

import (
	"net/http"

	"food-facilities-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

// Dataset reports how many facilities are being served.
type Dataset interface {
	Len() int
}

type HealthHandler struct {
	Dataset Dataset
	Hub     *socket.Hub
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"facilities": h.Dataset.Len(),
		"sessions":   h.Hub.Len(),
	})
}
