package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"showscrape/internal/entity"
	"showscrape/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) PendingBuckets(c *gin.Context) {
	buckets, err := h.eventService.PendingBuckets(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buckets)
}

type markPostedRequest struct {
	ExternalRef string `json:"external_ref"`
}

func (h *EventHandler) MarkPosted(c *gin.Context) {
	id := c.Param("id")

	var req markPostedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.eventService.MarkPosted(c.Request.Context(), id, req.ExternalRef); err != nil {
		if errors.Is(err, entity.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_id": id, "status": "posted"})
}
