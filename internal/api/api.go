// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartgestion/backend-go/internal/api/handlers"
	"github.com/andresuchdata/smartgestion/backend-go/internal/api/middleware"
	"github.com/andresuchdata/smartgestion/backend-go/internal/service"
)

// StatusReporter exposes the state of a background job
type StatusReporter interface {
	GetStatus() map[string]any
}

type Services struct {
	InsightService *service.InsightService
	Scheduler      StatusReporter
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.InsightService != nil {
		insightHandler := handlers.NewInsightHandler(services.InsightService)

		insightsGroup := apiGroup.Group("/insights")
		{
			insightsGroup.GET("", insightHandler.GetInsights)
			insightsGroup.GET("/stock", insightHandler.GetStockInsights)
			insightsGroup.GET("/profitability", insightHandler.GetProfitability)
			insightsGroup.GET("/clients", insightHandler.GetClients)
			insightsGroup.GET("/sales-trend", insightHandler.GetSalesTrend)
			insightsGroup.POST("/refresh", insightHandler.RefreshAlerts)
		}

		forecastGroup := apiGroup.Group("/forecast")
		{
			forecastGroup.GET("/demand", insightHandler.GetDemandForecast)
			forecastGroup.GET("/revenue", insightHandler.GetRevenueForecast)
		}

		apiGroup.GET("/alerts", insightHandler.GetAlerts)
		apiGroup.GET("/notifications", insightHandler.GetNotifications)
	}

	if services != nil && services.Scheduler != nil {
		apiGroup.GET("/scheduler/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, services.Scheduler.GetStatus())
		})
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
