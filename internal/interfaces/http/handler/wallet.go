package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	portfolioapp "github.com/pms/backend/internal/application/portfolio"
)

// WalletHandler handles owner wallet endpoints
type WalletHandler struct {
	BaseHandler
	walletService *portfolioapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *portfolioapp.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) ownerIDParam(c *gin.Context) (uuid.UUID, bool) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid owner id")
		return uuid.Nil, false
	}
	if scope := getOwnerScope(c); scope != nil && *scope != ownerID {
		h.Forbidden(c, "You may only access your own wallet")
		return uuid.Nil, false
	}
	return ownerID, true
}

func (h *WalletHandler) Get(c *gin.Context) {
	ownerID, ok := h.ownerIDParam(c)
	if !ok {
		return
	}

	resp, err := h.walletService.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WalletHandler) Adjust(c *gin.Context) {
	ownerID, ok := h.ownerIDParam(c)
	if !ok {
		return
	}

	var req portfolioapp.WalletAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.walletService.Adjust(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	ownerID, ok := h.ownerIDParam(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	resp, err := h.walletService.ListTransactions(c.Request.Context(), ownerID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
