package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ProviderName identifies a supported AI provider
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
)

// IsValid checks if the name refers to a supported provider
func (p ProviderName) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return true
	}
	return false
}

// String returns the string representation of ProviderName
func (p ProviderName) String() string {
	return string(p)
}

// allowedModels is the static per-provider model allow-list. Stored
// model settings outside these lists are rejected before any call.
var allowedModels = map[ProviderName][]string{
	ProviderOpenAI:    {"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"},
	ProviderAnthropic: {"claude-sonnet-4-20250514", "claude-3-7-sonnet-20250219", "claude-3-5-haiku-20241022"},
	ProviderGemini:    {"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
}

// AllowedModels returns the allow-list for a provider
func AllowedModels(p ProviderName) []string {
	return allowedModels[p]
}

// IsModelAllowed checks a model against the provider's allow-list
func IsModelAllowed(p ProviderName, model string) bool {
	for _, m := range allowedModels[p] {
		if m == model {
			return true
		}
	}
	return false
}

// DefaultModel returns the first allow-listed model for a provider
func DefaultModel(p ProviderName) string {
	models := allowedModels[p]
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// ErrMalformedInsight is returned when a provider reply cannot be
// parsed into the expected JSON shape.
var ErrMalformedInsight = errors.New("ai: response is not a valid insight document")

// Insight is the structured result every provider must produce
type Insight struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Provider generates an insight from a prompt
type Provider interface {
	Name() ProviderName
	GenerateInsight(ctx context.Context, model, prompt string) (*Insight, error)
}

// jsonInstruction is appended to every prompt so providers answer in
// the shape ParseInsight expects.
const jsonInstruction = "\n\nRespond with a single JSON object only, no prose around it, shaped as: " +
	`{"summary": "<one paragraph>", "recommendations": ["<action>", ...]}`

// ParseInsight extracts the insight document from a model reply. The
// reply may wrap the JSON in markdown fences or chatter; the first
// JSON object containing a summary wins.
func ParseInsight(raw string) (*Insight, error) {
	candidate := strings.TrimSpace(raw)

	// Strip markdown code fences if present
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		if idx := strings.LastIndex(candidate, "```"); idx >= 0 {
			candidate = candidate[:idx]
		}
		candidate = strings.TrimSpace(candidate)
	}

	if !gjson.Valid(candidate) {
		// Fall back to the outermost object inside the text
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return nil, ErrMalformedInsight
		}
		candidate = candidate[start : end+1]
		if !gjson.Valid(candidate) {
			return nil, ErrMalformedInsight
		}
	}

	summary := gjson.Get(candidate, "summary")
	recs := gjson.Get(candidate, "recommendations")
	if !summary.Exists() || !recs.Exists() || !recs.IsArray() {
		return nil, ErrMalformedInsight
	}

	insight := &Insight{Summary: summary.String()}
	for _, r := range recs.Array() {
		insight.Recommendations = append(insight.Recommendations, r.String())
	}

	return insight, nil
}

// MarshalPayload renders the insight back to its JSON wire form
func (i *Insight) MarshalPayload() (string, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return "", fmt.Errorf("ai: marshal insight: %w", err)
	}
	return string(b), nil
}
