package handler

import (
	"github.com/gin-gonic/gin"
	portfolioapp "github.com/pms/backend/internal/application/portfolio"
)

// OwnerHandler handles property owner endpoints
type OwnerHandler struct {
	BaseHandler
	ownerService *portfolioapp.OwnerService
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(ownerService *portfolioapp.OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerService: ownerService}
}

func (h *OwnerHandler) Create(c *gin.Context) {
	var req portfolioapp.CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.ownerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *OwnerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner id")
		return
	}

	// OWNER-role callers may only read their own record
	if scope := getOwnerScope(c); scope != nil && *scope != id {
		h.Forbidden(c, "You may only access your own owner record")
		return
	}

	resp, err := h.ownerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *OwnerHandler) List(c *gin.Context) {
	var filter portfolioapp.OwnerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	// OWNER-role callers see only their own record
	if scope := getOwnerScope(c); scope != nil {
		own, err := h.ownerService.GetByID(c.Request.Context(), *scope)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, []portfolioapp.OwnerResponse{*own}, 1, 1, 1)
		return
	}

	owners, total, err := h.ownerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, owners, total, filter.Page, filter.PageSize)
}

func (h *OwnerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner id")
		return
	}

	var req portfolioapp.UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.ownerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *OwnerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner id")
		return
	}

	if err := h.ownerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
