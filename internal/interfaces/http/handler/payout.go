package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/pms/backend/internal/application/finance"
)

// PayoutHandler handles payout endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *financeapp.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *financeapp.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

func (h *PayoutHandler) Create(c *gin.Context) {
	var req financeapp.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.payoutService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *PayoutHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payout id")
		return
	}

	resp, err := h.payoutService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if scope := getOwnerScope(c); scope != nil && resp.OwnerID != *scope {
		h.Forbidden(c, "You may only access your own payouts")
		return
	}
	h.Success(c, resp)
}

func (h *PayoutHandler) List(c *gin.Context) {
	var filter financeapp.PayoutListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if scope := getOwnerScope(c); scope != nil {
		filter.OwnerID = scope.String()
	}

	payouts, total, err := h.payoutService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payouts, total, filter.Page, filter.PageSize)
}

func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payout id")
		return
	}

	var req financeapp.MarkPayoutPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.payoutService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PayoutHandler) MarkFailed(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payout id")
		return
	}

	var req financeapp.MarkPayoutFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.payoutService.MarkFailed(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
