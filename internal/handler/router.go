package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/middleware"
	"github.com/tz-journal/internal/realtime"
	"github.com/tz-journal/internal/service"
)

// BuildInfo is reported by the health endpoint
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// NewRouter wires every route of the journal API. hub may be nil, in which
// case /ws is not served.
func NewRouter(journal *service.JournalService, hub *realtime.Hub, build BuildInfo) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		clients := 0
		if hub != nil {
			clients = hub.ClientCount()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    build.Version,
			"commit":     build.Commit,
			"build_time": build.BuildTime,
			"time":       time.Now().Unix(),
			"ws_clients": clients,
		})
	})

	if hub != nil {
		router.GET("/ws", hub.ServeWS)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		NewAccountHandler(journal).RegisterRoutes(v1)
		NewTradeHandler(journal).RegisterRoutes(v1)
		NewTransferHandler(journal).RegisterRoutes(v1)
		NewReportHandler(journal).RegisterRoutes(v1)
		NewSettingsHandler(journal).RegisterRoutes(v1)
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
