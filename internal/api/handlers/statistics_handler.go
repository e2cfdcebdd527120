package handlers

import (
	"net/http"

	"example.com/galleria/services/exhibition/internal/services"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler handles statistics HTTP requests
type StatisticsHandler struct {
	statistics *services.StatisticsService
	tracer     tracing.Tracer
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statistics *services.StatisticsService, tracer tracing.Tracer) *StatisticsHandler {
	return &StatisticsHandler{
		statistics: statistics,
		tracer:     tracer,
	}
}

// HandleExhibitionStatistics returns one exhibition's composition summary
func (h *StatisticsHandler) HandleExhibitionStatistics(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-exhibition-statistics")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.statistics.GetExhibitionStatistics(c, id)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandlePlatformStatistics returns the programme-wide summary
func (h *StatisticsHandler) HandlePlatformStatistics(c *gin.Context) {
	stats, err := h.statistics.GetPlatformStatistics(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers the handler's routes
func (h *StatisticsHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/exhibitions/:id/statistics", h.HandleExhibitionStatistics)
	api.GET("/statistics", h.HandlePlatformStatistics)
}
