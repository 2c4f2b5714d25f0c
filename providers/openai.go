package providers

import (
	"encoding/json"
	"fmt"
)

// openAICompatible implements the OpenAI chat-completions wire format, which
// Groq also speaks.
type openAICompatible struct {
	name         string
	endpoint     string
	apiKey       string
	model        string
	extraHeaders map[string]string
}

// NewOpenAIProvider creates a provider for the OpenAI chat completions API.
func NewOpenAIProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	return &openAICompatible{
		name:         "openai",
		endpoint:     "https://api.openai.com/v1/chat/completions",
		apiKey:       apiKey,
		model:        model,
		extraHeaders: extraHeaders,
	}
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible API.
func NewGroqProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	return &openAICompatible{
		name:         "groq",
		endpoint:     "https://api.groq.com/openai/v1/chat/completions",
		apiKey:       apiKey,
		model:        model,
		extraHeaders: extraHeaders,
	}
}

func (p *openAICompatible) Name() string { return p.name }

func (p *openAICompatible) Endpoint() string { return p.endpoint }

func (p *openAICompatible) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apiKey,
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *openAICompatible) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *openAICompatible) SupportsJSONSchema() bool { return true }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *openAICompatible) requestBody(req Request) map[string]any {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	return map[string]any{
		"model":       p.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
}

func (p *openAICompatible) PrepareRequest(req Request) ([]byte, error) {
	return json.Marshal(p.requestBody(req))
}

func (p *openAICompatible) PrepareRequestWithSchema(req Request, schema map[string]any) ([]byte, error) {
	body := p.requestBody(req)
	body["response_format"] = map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "response",
			"strict": true,
			"schema": schema,
		},
	}
	return json.Marshal(body)
}

func (p *openAICompatible) ParseResponse(body []byte) (string, error) {
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%s: failed to decode response: %w", p.name, err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("%s: API error: %s", p.name, response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response: no choices returned", p.name)
	}
	return response.Choices[0].Message.Content, nil
}
