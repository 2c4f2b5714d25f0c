package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("default registry holds all providers", func(t *testing.T) {
		registry := NewRegistry()
		assert.Equal(t, []string{"anthropic", "groq", "mock", "ollama", "openai"}, registry.Names())
	})

	t.Run("filtered registry", func(t *testing.T) {
		registry := NewRegistry("openai", "mock")
		assert.Equal(t, []string{"mock", "openai"}, registry.Names())

		_, err := registry.Get("anthropic", "", "model", nil)
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		registry := NewRegistry()
		_, err := registry.Get("cohere", "", "model", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})

	t.Run("custom registration", func(t *testing.T) {
		registry := NewRegistry("mock")
		registry.Register("custom", NewMockProvider)

		provider, err := registry.Get("custom", "", "model", nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", provider.Name())
	})
}

func TestOpenAIPrepareRequest(t *testing.T) {
	provider := NewOpenAIProvider("sk-test", "gpt-4o-mini", nil)

	body, err := provider.PrepareRequest(Request{
		System:      "be brief",
		User:        "hello",
		Temperature: 0.5,
	})
	require.NoError(t, err)

	var decoded struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		Temperature float64       `json:"temperature"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "gpt-4o-mini", decoded.Model)
	assert.Equal(t, 0.5, decoded.Temperature)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, "system", decoded.Messages[0].Role)
	assert.Equal(t, "user", decoded.Messages[1].Role)
	assert.Equal(t, "hello", decoded.Messages[1].Content)
}

func TestOpenAIPrepareRequestWithSchema(t *testing.T) {
	provider := NewOpenAIProvider("sk-test", "gpt-4o-mini", nil)

	schema := map[string]any{"type": "object"}
	body, err := provider.PrepareRequestWithSchema(Request{User: "hello"}, schema)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	format, ok := decoded["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIParseResponse(t *testing.T) {
	provider := NewOpenAIProvider("sk-test", "gpt-4o-mini", nil)

	t.Run("success", func(t *testing.T) {
		content, err := provider.ParseResponse([]byte(`{"choices":[{"message":{"content":"4"}}]}`))
		require.NoError(t, err)
		assert.Equal(t, "4", content)
	})

	t.Run("api error object", func(t *testing.T) {
		_, err := provider.ParseResponse([]byte(`{"error":{"message":"model overloaded"}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("no choices", func(t *testing.T) {
		_, err := provider.ParseResponse([]byte(`{"choices":[]}`))
		require.Error(t, err)
	})
}

func TestGroqProvider(t *testing.T) {
	provider := NewGroqProvider("gsk-test", "llama-3.3-70b-versatile", nil)
	assert.Equal(t, "groq", provider.Name())
	assert.Contains(t, provider.Endpoint(), "api.groq.com")
	assert.Equal(t, "Bearer gsk-test", provider.Headers()["Authorization"])
	assert.True(t, provider.SupportsJSONSchema())
}

func TestAnthropicProvider(t *testing.T) {
	provider := NewAnthropicProvider("sk-ant", "model-x", nil)

	t.Run("headers", func(t *testing.T) {
		headers := provider.Headers()
		assert.Equal(t, "sk-ant", headers["x-api-key"])
		assert.Equal(t, "2023-06-01", headers["anthropic-version"])
	})

	t.Run("system prompt is a top-level field", func(t *testing.T) {
		body, err := provider.PrepareRequest(Request{System: "be brief", User: "hello"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "be brief", decoded["system"])
	})

	t.Run("parse response", func(t *testing.T) {
		content, err := provider.ParseResponse([]byte(`{"content":[{"type":"text","text":"4"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "4", content)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := provider.ParseResponse([]byte(`{"error":{"message":"invalid key"}}`))
		require.Error(t, err)
	})
}

func TestOllamaProvider(t *testing.T) {
	provider := NewOllamaProvider("http://localhost:9999/", "llama3", nil)
	assert.Equal(t, "http://localhost:9999/api/chat", provider.Endpoint())

	t.Run("defaults endpoint when empty", func(t *testing.T) {
		p := NewOllamaProvider("", "llama3", nil)
		assert.Equal(t, "http://localhost:11434/api/chat", p.Endpoint())
	})

	t.Run("request disables streaming", func(t *testing.T) {
		body, err := provider.PrepareRequest(Request{User: "hello"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, false, decoded["stream"])
	})

	t.Run("parse response", func(t *testing.T) {
		content, err := provider.ParseResponse([]byte(`{"message":{"content":"4"}}`))
		require.NoError(t, err)
		assert.Equal(t, "4", content)
	})
}

func TestMockProviderQueue(t *testing.T) {
	provider := NewMockProvider("", "mock-model", nil).(*MockProvider)
	provider.SetResponses([]string{"first", "second"}, false)

	_, err := provider.PrepareRequest(Request{User: "hello"})
	require.NoError(t, err)

	first, err := provider.ParseResponse(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	second, err := provider.ParseResponse(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	_, err = provider.ParseResponse(nil)
	require.Error(t, err, "queue exhausted without looping")

	requests := provider.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "hello", requests[0].User)
}
