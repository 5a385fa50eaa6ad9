package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartgestion/backend-go/internal/service"
)

const defaultNotificationLimit = 50

type InsightHandler struct {
	service *service.InsightService
}

func NewInsightHandler(service *service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

// GetInsights returns the merged, prioritized insight list
func (h *InsightHandler) GetInsights(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute insights", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generated_at": report.GeneratedAt,
		"insights":     report.Insights,
	})
}

func (h *InsightHandler) GetStockInsights(c *gin.Context) {
	insights, err := h.service.StockInsights(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute stock insights", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *InsightHandler) GetProfitability(c *gin.Context) {
	report, err := h.service.ProfitabilityReport(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute profitability", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *InsightHandler) GetClients(c *gin.Context) {
	report, err := h.service.ClientReport(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to segment clients", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *InsightHandler) GetSalesTrend(c *gin.Context) {
	report, err := h.service.SalesTrendReport(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute sales trend", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *InsightHandler) GetDemandForecast(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to forecast demand", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": report.Demand})
}

func (h *InsightHandler) GetRevenueForecast(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to forecast revenue", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": report.Revenue})
}

func (h *InsightHandler) GetAlerts(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute alerts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": report.Alerts})
}

// RefreshAlerts re-evaluates alerts on fresh data and persists new notifications
func (h *InsightHandler) RefreshAlerts(c *gin.Context) {
	result, err := h.service.RefreshAlerts(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to refresh alerts", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InsightHandler) GetNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNotificationLimit)))
	if err != nil || limit <= 0 {
		respondError(c, http.StatusBadRequest, "invalid limit", err)
		return
	}

	notifications, err := h.service.Notifications(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func respondError(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(statusCode, body)
}
