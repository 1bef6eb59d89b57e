package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"showscrape/internal/entity"
	"showscrape/internal/service"
)

type IngestHandler struct {
	ingestService service.IngestService
}

func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

func (h *IngestHandler) ListVenues(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingestService.ListVenues())
}

func (h *IngestHandler) ScrapeAll(c *gin.Context) {
	stored, err := h.ingestService.ScrapeAll(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrAllVenuesFailed) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": stored})
}

func (h *IngestHandler) ScrapeVenue(c *gin.Context) {
	venueID := c.Param("id")

	stored, err := h.ingestService.ScrapeVenue(c.Request.Context(), venueID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrUnknownVenue) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"venue_id": venueID, "stored": stored})
}
