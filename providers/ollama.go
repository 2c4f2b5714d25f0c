package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ollamaProvider struct {
	endpoint     string
	model        string
	extraHeaders map[string]string
}

// NewOllamaProvider creates a provider for a local Ollama instance. The
// apiKey argument carries the endpoint override; Ollama needs no key.
func NewOllamaProvider(endpoint, model string, extraHeaders map[string]string) Provider {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &ollamaProvider{
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		model:        model,
		extraHeaders: extraHeaders,
	}
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) Endpoint() string { return p.endpoint + "/api/chat" }

func (p *ollamaProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *ollamaProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *ollamaProvider) SupportsJSONSchema() bool { return false }

func (p *ollamaProvider) PrepareRequest(req Request) ([]byte, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	return json.Marshal(map[string]any{
		"model":    p.model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"temperature": req.Temperature,
		},
	})
}

func (p *ollamaProvider) PrepareRequestWithSchema(req Request, _ map[string]any) ([]byte, error) {
	return p.PrepareRequest(req)
}

func (p *ollamaProvider) ParseResponse(body []byte) (string, error) {
	var response struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("ollama: failed to decode response: %w", err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("ollama: API error: %s", response.Error)
	}
	return response.Message.Content, nil
}
