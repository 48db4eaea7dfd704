package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/settings"
)

// =============================================================================
// Setting DTOs
// =============================================================================

// UpsertSettingRequest creates or replaces one setting row
type UpsertSettingRequest struct {
	Key   string `json:"key" binding:"required,max=200"`
	Value string `json:"value" binding:"max=10000"`
	Group string `json:"group" binding:"required,oneof=GENERAL NOTIFICATION FX AI BACKUP"`
}

// BulkUpsertRequest replaces a batch of settings in one call
type BulkUpsertRequest struct {
	Settings []UpsertSettingRequest `json:"settings" binding:"required,min=1,max=100,dive"`
}

// SettingListFilter narrows the settings listing
type SettingListFilter struct {
	Group string `form:"group" binding:"omitempty,oneof=GENERAL NOTIFICATION FX AI BACKUP"`
}

// PreviewTemplateRequest renders a notification template with sample data
type PreviewTemplateRequest struct {
	Event   string `json:"event" binding:"required"`
	Channel string `json:"channel" binding:"required,oneof=EMAIL SMS WHATSAPP"`
	Body    string `json:"body" binding:"omitempty,max=10000"`
}

// AISettingsRequest updates the AI provider configuration
type AISettingsRequest struct {
	Provider string `json:"provider" binding:"required,oneof=openai anthropic gemini"`
	Model    string `json:"model" binding:"omitempty,max=100"`
}

// SettingResponse represents one setting row
type SettingResponse struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Group     string    `json:"group"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreviewTemplateResponse is a rendered template
type PreviewTemplateResponse struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// AISettingsResponse reports the active AI configuration
type AISettingsResponse struct {
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	AllowedModels []string `json:"allowed_models"`
}

// ToSettingResponse converts a domain setting to a response DTO
func ToSettingResponse(s *settings.Setting) *SettingResponse {
	return &SettingResponse{
		ID:        s.ID,
		Key:       s.Key,
		Value:     s.Value,
		Group:     string(s.Group),
		UpdatedAt: s.UpdatedAt,
	}
}
