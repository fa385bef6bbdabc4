package event

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for events
type Handler struct {
	service Service
}

// NewHandler creates a new event handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// FilterFromQuery builds a QueryFilter from request query parameters.
// Dates use YYYY-MM-DD; the end date is inclusive for its whole day.
func FilterFromQuery(c *gin.Context) (QueryFilter, error) {
	var filter QueryFilter

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.Start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.End = &endOfDay
	}
	filter.Status = c.Query("status")
	filter.HostEmail = c.Query("host_email")
	return filter, nil
}

// List handles GET /events
func (h *Handler) List(c *gin.Context) {
	filter, err := FilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	events, err := h.service.Query(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// Stats handles GET /events/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
