package providers

import (
	"encoding/json"
	"fmt"
)

const anthropicMaxTokens = 1024

type anthropicProvider struct {
	apiKey       string
	model        string
	extraHeaders map[string]string
}

// NewAnthropicProvider creates a provider for the Anthropic messages API.
func NewAnthropicProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	return &anthropicProvider{
		apiKey:       apiKey,
		model:        model,
		extraHeaders: extraHeaders,
	}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Endpoint() string { return "https://api.anthropic.com/v1/messages" }

func (p *anthropicProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *anthropicProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *anthropicProvider) SupportsJSONSchema() bool { return false }

func (p *anthropicProvider) PrepareRequest(req Request) ([]byte, error) {
	body := map[string]any{
		"model":      p.model,
		"max_tokens": anthropicMaxTokens,
		"messages": []chatMessage{
			{Role: "user", Content: req.User},
		},
		"temperature": req.Temperature,
	}
	if req.System != "" {
		body["system"] = req.System
	}
	return json.Marshal(body)
}

func (p *anthropicProvider) PrepareRequestWithSchema(req Request, _ map[string]any) ([]byte, error) {
	return p.PrepareRequest(req)
}

func (p *anthropicProvider) ParseResponse(body []byte) (string, error) {
	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("anthropic: failed to decode response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s", response.Error.Message)
	}
	for _, block := range response.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: empty response: no text content")
}
