package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/pms/backend/internal/application/settings"
)

// SettingHandler handles system configuration endpoints
type SettingHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingsService *settingsapp.SettingsService) *SettingHandler {
	return &SettingHandler{settingsService: settingsService}
}

func (h *SettingHandler) List(c *gin.Context) {
	var filter settingsapp.SettingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, err := h.settingsService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

func (h *SettingHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Missing setting key")
		return
	}

	resp, err := h.settingsService.GetByKey(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SettingHandler) Upsert(c *gin.Context) {
	var req settingsapp.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.settingsService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SettingHandler) BulkUpsert(c *gin.Context) {
	var req settingsapp.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, err := h.settingsService.BulkUpsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

func (h *SettingHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid setting id")
		return
	}

	if err := h.settingsService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PreviewTemplate renders a notification template with sample data
func (h *SettingHandler) PreviewTemplate(c *gin.Context) {
	var req settingsapp.PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.settingsService.PreviewTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SettingHandler) GetAISettings(c *gin.Context) {
	resp, err := h.settingsService.GetAISettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SettingHandler) UpdateAISettings(c *gin.Context) {
	var req settingsapp.AISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.settingsService.UpdateAISettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
