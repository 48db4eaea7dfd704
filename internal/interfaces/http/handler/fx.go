package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/pms/backend/internal/application/finance"
)

// FXHandler handles exchange rate endpoints
type FXHandler struct {
	BaseHandler
	fxService *financeapp.FXService
}

// NewFXHandler creates a new FXHandler
func NewFXHandler(fxService *financeapp.FXService) *FXHandler {
	return &FXHandler{fxService: fxService}
}

func (h *FXHandler) ListRates(c *gin.Context) {
	rates, err := h.fxService.ListRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

func (h *FXHandler) UpsertRate(c *gin.Context) {
	var req financeapp.UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.fxService.UpsertRate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *FXHandler) Convert(c *gin.Context) {
	var req financeapp.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.fxService.Convert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
