package sync

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fms-tools/calendly-insights/internal/synclog"
)

// Handler handles HTTP requests for sync runs
type Handler struct {
	service  *Service
	logs     synclog.Repository
	daysBack int
}

// NewHandler creates a new sync handler
func NewHandler(service *Service, logs synclog.Repository, defaultDaysBack int) *Handler {
	return &Handler{service: service, logs: logs, daysBack: defaultDaysBack}
}

type triggerRequest struct {
	DaysBack int `json:"days_back"`
}

// Trigger handles POST /sync. The response carries the counts the run
// recorded in the sync log.
func (h *Handler) Trigger(c *gin.Context) {
	req := triggerRequest{DaysBack: h.daysBack}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.DaysBack < 1 || req.DaysBack > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be between 1 and 365"})
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -req.DaysBack)
	ok := h.service.Run(c.Request.Context(), start, end)

	entry, err := h.logs.Latest(c.Request.Context())
	if err != nil || entry == nil {
		status := http.StatusInternalServerError
		if !ok {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": ok})
		return
	}

	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   entry.ErrorMessage,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"events_fetched": entry.EventsFetched,
		"events_new":     entry.EventsNew,
		"events_updated": entry.EventsUpdated,
	})
}
