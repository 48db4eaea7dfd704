package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	opsapp "github.com/pms/backend/internal/application/ops"
)

// IssueHandler handles maintenance issue endpoints
type IssueHandler struct {
	BaseHandler
	issueService *opsapp.IssueService
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(issueService *opsapp.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

func (h *IssueHandler) Report(c *gin.Context) {
	var req opsapp.ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.issueService.Report(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *IssueHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	resp, err := h.issueService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *IssueHandler) List(c *gin.Context) {
	var filter opsapp.IssueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	issues, total, err := h.issueService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, issues, total, filter.Page, filter.PageSize)
}

func (h *IssueHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	var req opsapp.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.issueService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *IssueHandler) Assign(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	var req opsapp.AssignIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.issueService.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *IssueHandler) Resolve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	var req opsapp.ResolveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.issueService.Resolve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *IssueHandler) Close(c *gin.Context) {
	h.transition(c, h.issueService.Close)
}

func (h *IssueHandler) Reopen(c *gin.Context) {
	h.transition(c, h.issueService.Reopen)
}

func (h *IssueHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *IssueHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*opsapp.IssueResponse, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid issue id")
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
