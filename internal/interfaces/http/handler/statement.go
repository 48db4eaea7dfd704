package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/pms/backend/internal/application/finance"
)

// StatementHandler handles owner statement endpoints
type StatementHandler struct {
	BaseHandler
	statementService *financeapp.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *financeapp.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

func (h *StatementHandler) Generate(c *gin.Context) {
	var req financeapp.GenerateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.statementService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *StatementHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}

	resp, err := h.statementService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if scope := getOwnerScope(c); scope != nil && resp.OwnerID != *scope {
		h.Forbidden(c, "You may only access your own statements")
		return
	}
	h.Success(c, resp)
}

func (h *StatementHandler) List(c *gin.Context) {
	var filter financeapp.StatementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if scope := getOwnerScope(c); scope != nil {
		filter.OwnerID = scope.String()
	}

	statements, total, err := h.statementService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, statements, total, filter.Page, filter.PageSize)
}

func (h *StatementHandler) Finalize(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}

	resp, err := h.statementService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *StatementHandler) Send(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}

	resp, err := h.statementService.Send(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *StatementHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}

	if err := h.statementService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
