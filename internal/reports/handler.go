package reports

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fms-tools/calendly-insights/internal/event"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service  *Service
	exporter Exporter
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, exporter Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

// Summary handles GET /reports/summary
func (h *Handler) Summary(c *gin.Context) {
	filter, err := event.FilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export handles GET /reports/events
func (h *Handler) Export(c *gin.Context) {
	filter, err := event.FilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", FormatCSV))

	events, err := h.service.Events(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events for export"})
		return
	}

	data, filename, contentType, err := h.exporter.Export(format, events)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
