package settings

import (
	"strconv"
	"strings"

	"github.com/pms/backend/internal/domain/shared"
)

// SettingGroup namespaces settings for the admin UI
type SettingGroup string

const (
	GroupGeneral      SettingGroup = "GENERAL"
	GroupNotification SettingGroup = "NOTIFICATION"
	GroupFX           SettingGroup = "FX"
	GroupAI           SettingGroup = "AI"
	GroupBackup       SettingGroup = "BACKUP"
)

// IsValid checks if the group is a valid SettingGroup
func (g SettingGroup) IsValid() bool {
	switch g {
	case GroupGeneral, GroupNotification, GroupFX, GroupAI, GroupBackup:
		return true
	}
	return false
}

// String returns the string representation of SettingGroup
func (g SettingGroup) String() string {
	return string(g)
}

// Well-known setting keys
const (
	KeyCompanyName      = "general.company_name"
	KeyBaseCurrency     = "general.base_currency"
	KeyAIProvider       = "ai.provider"
	KeyAIModel          = "ai.model"
	KeyBackupSchedule   = "backup.schedule"
	KeyStatementDay     = "general.statement_day"
	KeyMailFromAddress  = "notification.mail_from"
	KeyMailReplyTo      = "notification.mail_reply_to"
	KeySMSSenderID      = "notification.sms_sender_id"
	KeyWhatsAppFrom     = "notification.whatsapp_from"
	KeyInsightCacheTTL  = "ai.insight_cache_ttl"
	KeyFXRefreshEnabled = "fx.refresh_enabled"
)

// Setting is one key/value configuration row
type Setting struct {
	shared.BaseEntity
	Key   string       `json:"key"`
	Value string       `json:"value"`
	Group SettingGroup `json:"group"`
}

// NewSetting creates a setting row
func NewSetting(key, value string, group SettingGroup) (*Setting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if len(key) > 200 {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot exceed 200 characters")
	}
	if !group.IsValid() {
		return nil, shared.NewDomainError("INVALID_GROUP", "Setting group is not valid")
	}

	return &Setting{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Value:      value,
		Group:      group,
	}, nil
}

// SetValue replaces the stored value
func (s *Setting) SetValue(value string) {
	s.Value = value
	s.Touch()
}

// BoolValue parses the value as a boolean, with a fallback
func (s *Setting) BoolValue(fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s.Value))
	if err != nil {
		return fallback
	}
	return v
}

// IntValue parses the value as an integer, with a fallback
func (s *Setting) IntValue(fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s.Value))
	if err != nil {
		return fallback
	}
	return v
}
