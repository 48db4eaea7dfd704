package handler

import (
	"github.com/gin-gonic/gin"
	insightapp "github.com/pms/backend/internal/application/insight"
)

// InsightHandler handles AI insight endpoints
type InsightHandler struct {
	BaseHandler
	insightService *insightapp.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *insightapp.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Generate produces an insight for a page, serving from cache unless
// the caller asks for a refresh
func (h *InsightHandler) Generate(c *gin.Context) {
	var req insightapp.GenerateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.insightService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
