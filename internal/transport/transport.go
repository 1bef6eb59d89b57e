package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"showscrape/internal/transport/middleware"
)

func InitRoutes(ingestHandler *IngestHandler, eventHandler *EventHandler) *gin.Engine {
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(60 * time.Second))

	api := router.Group("/api/v1")
	{
		venues := api.Group("/venues")
		{
			venues.GET("", ingestHandler.ListVenues)
		}

		scrape := api.Group("/scrape")
		{
			scrape.POST("", ingestHandler.ScrapeAll)
			scrape.POST("/:id", ingestHandler.ScrapeVenue)
		}

		events := api.Group("/events")
		{
			events.GET("/pending", eventHandler.PendingBuckets)
			events.GET("/:id", eventHandler.GetEvent)
			events.POST("/:id/posted", eventHandler.MarkPosted)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
