package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 2048
)

// AnthropicProvider calls the Anthropic messages API
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates an Anthropic provider
func NewAnthropicProvider(apiKey string, timeout time.Duration) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:  apiKey,
		baseURL: defaultAnthropicBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests
func (p *AnthropicProvider) WithBaseURL(url string) *AnthropicProvider {
	p.baseURL = url
	return p
}

// Name returns the provider name
func (p *AnthropicProvider) Name() ProviderName {
	return ProviderAnthropic
}

// GenerateInsight asks the model for a structured insight document
func (p *AnthropicProvider) GenerateInsight(ctx context.Context, model, prompt string) (*Insight, error) {
	if !IsModelAllowed(ProviderAnthropic, model) {
		return nil, fmt.Errorf("ai: model %q is not allowed for anthropic", model)
	}

	payload := map[string]any{
		"model":      model,
		"max_tokens": anthropicMaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt + jsonInstruction},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai: anthropic unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error.message"); msg.Exists() {
			return nil, fmt.Errorf("ai: anthropic: %s", msg.String())
		}
		return nil, fmt.Errorf("ai: anthropic HTTP %d", resp.StatusCode)
	}

	content := gjson.GetBytes(raw, "content.0.text")
	if !content.Exists() {
		return nil, ErrMalformedInsight
	}

	return ParseInsight(content.String())
}

var _ Provider = (*AnthropicProvider)(nil)
