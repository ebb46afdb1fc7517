package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

type StatsHandler struct {
	svc    *services.WellnessService
	logger *zap.Logger
}

func NewStatsHandler(svc *services.WellnessService, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{svc: svc, logger: logger}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/score", h.GetScore)
		analytics.GET("/patterns", h.GetPatterns)
		analytics.GET("/correlations", h.GetCorrelations)
		analytics.GET("/predictions", h.GetPredictions)
		analytics.GET("/reports/:type", h.GetReport)
		analytics.POST("/views", h.RecordView)
	}
}

// GetScore godoc
// @Summary Current wellness score and its components
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.WellnessScore
// @Router /analytics/score [get]
func (h *StatsHandler) GetScore(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.WellnessScore())
}

// GetPatterns godoc
// @Summary Average mood per day, week or month
// @Tags analytics
// @Produce json
// @Param period query string false "week, month or year (default week)"
// @Success 200 {object} domain.MoodPattern
// @Failure 400 {object} map[string]string
// @Router /analytics/patterns [get]
func (h *StatsHandler) GetPatterns(c *gin.Context) {
	pattern, err := h.svc.MoodPatterns(c.DefaultQuery("period", "week"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// GetCorrelations godoc
// @Summary Factor co-occurrence matrix over mood entries
// @Tags analytics
// @Produce json
// @Param factors query string false "Comma separated factor names"
// @Success 200 {object} domain.CorrelationMatrix
// @Router /analytics/correlations [get]
func (h *StatsHandler) GetCorrelations(c *gin.Context) {
	var factors []string
	for _, f := range strings.Split(c.Query("factors"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			factors = append(factors, f)
		}
	}
	c.JSON(http.StatusOK, h.svc.FactorCorrelations(factors))
}

// GetPredictions godoc
// @Summary Forecasts derived from recent moods and sleep
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.Prediction
// @Router /analytics/predictions [get]
func (h *StatsHandler) GetPredictions(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Predictions())
}

// GetReport godoc
// @Summary Build a monthly, patterns or progress report
// @Tags analytics
// @Produce json
// @Param type path string true "monthly, patterns or progress"
// @Success 200 {object} domain.Report
// @Failure 400 {object} map[string]string
// @Router /analytics/reports/{type} [get]
func (h *StatsHandler) GetReport(c *gin.Context) {
	report, err := h.svc.Report(c.Param("type"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// RecordView godoc
// @Summary Count a visit to the analytics dashboard
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /analytics/views [post]
func (h *StatsHandler) RecordView(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ViewAnalytics(c.Request.Context()))
}
