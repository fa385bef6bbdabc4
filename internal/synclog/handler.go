package synclog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for sync logs
type Handler struct {
	service Service
}

// NewHandler creates a new sync log handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /sync/logs
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync logs"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest handles GET /sync/status
func (h *Handler) Latest(c *gin.Context) {
	entry, err := h.service.Latest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync status"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"last_sync": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_sync": entry})
}
