package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/notification"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/ai"
)

// sampleTemplateData fills template previews so admins can see a
// realistic rendering before saving an override.
var sampleTemplateData = map[string]string{
	"booking_code":   "BK-2026-001",
	"property_name":  "Sea View Apartment",
	"guest_name":     "Ama Mensah",
	"check_in":       "2026-05-01",
	"check_out":      "2026-05-05",
	"reason":         "guest request",
	"severity":       "HIGH",
	"title":          "Air conditioner not cooling",
	"reported_by":    "cleaner",
	"description":    "Unit in the master bedroom blows warm air.",
	"statement_code": "STMT-OWN-001-202604",
	"owner_name":     "Kwame Asante",
	"period":         "2026-04-01 to 2026-05-01",
	"net_amount":     "1250.00 GHS",
	"amount":         "1250.00 GHS",
	"method":         "MOBILE_MONEY",
	"reference":      "TRX-000123",
	"name":           "Kwame Asante",
}

// SettingsService manages configuration rows and template previews
type SettingsService struct {
	settingsRepo settings.Repository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo settings.Repository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// List returns settings, optionally narrowed to one group
func (s *SettingsService) List(ctx context.Context, filter SettingListFilter) ([]SettingResponse, error) {
	var (
		rows []settings.Setting
		err  error
	)
	if filter.Group != "" {
		rows, err = s.settingsRepo.FindByGroup(ctx, settings.SettingGroup(filter.Group))
	} else {
		rows, err = s.settingsRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]SettingResponse, len(rows))
	for i := range rows {
		responses[i] = *ToSettingResponse(&rows[i])
	}
	return responses, nil
}

// GetByKey retrieves one setting row
func (s *SettingsService) GetByKey(ctx context.Context, key string) (*SettingResponse, error) {
	setting, err := s.settingsRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return ToSettingResponse(setting), nil
}

// Upsert creates or replaces one setting
func (s *SettingsService) Upsert(ctx context.Context, req UpsertSettingRequest) (*SettingResponse, error) {
	setting, err := s.upsertOne(ctx, req)
	if err != nil {
		return nil, err
	}
	return ToSettingResponse(setting), nil
}

// BulkUpsert replaces a batch of settings. The batch is validated
// up front so a bad row does not leave a partial write behind.
func (s *SettingsService) BulkUpsert(ctx context.Context, req BulkUpsertRequest) ([]SettingResponse, error) {
	for _, item := range req.Settings {
		if !settings.SettingGroup(item.Group).IsValid() {
			return nil, shared.NewDomainError("INVALID_GROUP", "Setting group is not valid: "+item.Group)
		}
	}

	responses := make([]SettingResponse, 0, len(req.Settings))
	for _, item := range req.Settings {
		setting, err := s.upsertOne(ctx, item)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *ToSettingResponse(setting))
	}
	return responses, nil
}

// Delete removes one setting row
func (s *SettingsService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.settingsRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.settingsRepo.Delete(ctx, id)
}

// PreviewTemplate renders a notification template with sample data.
// When the request carries a body, that draft is rendered; otherwise
// the stored or built-in template for the event/channel pair is used.
func (s *SettingsService) PreviewTemplate(ctx context.Context, req PreviewTemplateRequest) (*PreviewTemplateResponse, error) {
	event := notification.EventKind(req.Event)
	channel := notification.Channel(req.Channel)
	if !event.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT", "Notification event is not valid")
	}

	tmpl, ok := notification.DefaultTemplate(event, channel)
	if !ok {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "No template exists for this event and channel")
	}

	if req.Body != "" {
		tmpl.Body = req.Body
	} else if stored, err := s.settingsRepo.FindByKey(ctx, notification.TemplateKey(event, channel)); err == nil && stored.Value != "" {
		tmpl.Body = stored.Value
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	subject, body := tmpl.Render(sampleTemplateData)
	return &PreviewTemplateResponse{Subject: subject, Body: body}, nil
}

// GetAISettings reports the active AI provider configuration
func (s *SettingsService) GetAISettings(ctx context.Context) (*AISettingsResponse, error) {
	provider := ai.ProviderOpenAI
	if row, err := s.settingsRepo.FindByKey(ctx, settings.KeyAIProvider); err == nil && row.Value != "" {
		provider = ai.ProviderName(row.Value)
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if !provider.IsValid() {
		provider = ai.ProviderOpenAI
	}

	model := ai.DefaultModel(provider)
	if row, err := s.settingsRepo.FindByKey(ctx, settings.KeyAIModel); err == nil && row.Value != "" {
		if ai.IsModelAllowed(provider, row.Value) {
			model = row.Value
		}
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return &AISettingsResponse{
		Provider:      provider.String(),
		Model:         model,
		AllowedModels: ai.AllowedModels(provider),
	}, nil
}

// UpdateAISettings stores the AI provider and model after checking the
// model against the provider's allow list.
func (s *SettingsService) UpdateAISettings(ctx context.Context, req AISettingsRequest) (*AISettingsResponse, error) {
	provider := ai.ProviderName(req.Provider)
	if !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "AI provider must be openai, anthropic or gemini")
	}

	model := req.Model
	if model == "" {
		model = ai.DefaultModel(provider)
	}
	if !ai.IsModelAllowed(provider, model) {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model "+model+" is not allowed for provider "+req.Provider)
	}

	if _, err := s.upsertOne(ctx, UpsertSettingRequest{Key: settings.KeyAIProvider, Value: req.Provider, Group: string(settings.GroupAI)}); err != nil {
		return nil, err
	}
	if _, err := s.upsertOne(ctx, UpsertSettingRequest{Key: settings.KeyAIModel, Value: model, Group: string(settings.GroupAI)}); err != nil {
		return nil, err
	}

	return &AISettingsResponse{
		Provider:      provider.String(),
		Model:         model,
		AllowedModels: ai.AllowedModels(provider),
	}, nil
}

func (s *SettingsService) upsertOne(ctx context.Context, req UpsertSettingRequest) (*settings.Setting, error) {
	existing, err := s.settingsRepo.FindByKey(ctx, req.Key)
	if err == nil {
		existing.SetValue(req.Value)
		existing.Group = settings.SettingGroup(req.Group)
		if err := s.settingsRepo.Upsert(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	setting, err := settings.NewSetting(req.Key, req.Value, settings.SettingGroup(req.Group))
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}
