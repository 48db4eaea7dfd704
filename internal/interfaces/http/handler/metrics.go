package handler

import (
	"github.com/gin-gonic/gin"
	metricsapp "github.com/pms/backend/internal/application/metrics"
)

// MetricsHandler handles admin analytics endpoints
type MetricsHandler struct {
	BaseHandler
	metricsService *metricsapp.MetricsService
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metricsService *metricsapp.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

func (h *MetricsHandler) Overview(c *gin.Context) {
	var query metricsapp.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.metricsService.Overview(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *MetricsHandler) Daily(c *gin.Context) {
	var query metricsapp.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.metricsService.Daily(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *MetricsHandler) Properties(c *gin.Context) {
	var query metricsapp.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.metricsService.Properties(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
