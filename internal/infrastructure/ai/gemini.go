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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider calls the Google Gemini generateContent API
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(apiKey string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests
func (p *GeminiProvider) WithBaseURL(url string) *GeminiProvider {
	p.baseURL = url
	return p
}

// Name returns the provider name
func (p *GeminiProvider) Name() ProviderName {
	return ProviderGemini
}

// GenerateInsight asks the model for a structured insight document
func (p *GeminiProvider) GenerateInsight(ctx context.Context, model, prompt string) (*Insight, error) {
	if !IsModelAllowed(ProviderGemini, model) {
		return nil, fmt.Errorf("ai: model %q is not allowed for gemini", model)
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt + jsonInstruction}}},
		},
		"generationConfig": map[string]string{"responseMimeType": "application/json"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai: gemini unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error.message"); msg.Exists() {
			return nil, fmt.Errorf("ai: gemini: %s", msg.String())
		}
		return nil, fmt.Errorf("ai: gemini HTTP %d", resp.StatusCode)
	}

	content := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !content.Exists() {
		return nil, ErrMalformedInsight
	}

	return ParseInsight(content.String())
}

var _ Provider = (*GeminiProvider)(nil)
