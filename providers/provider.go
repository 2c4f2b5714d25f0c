// Package providers implements chat-completion provider adapters behind a
// unified interface, with a thread-safe registry. Supported providers:
// OpenAI, Groq, Anthropic, and Ollama, plus a mock provider for tests.
package providers

// Request is a single chat-completion exchange: one system prompt, one user
// prompt, and a sampling temperature. The search loop pins temperature to 0
// so the baseline response is a stable comparison anchor.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Provider adapts one LLM service's wire format.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Endpoint returns the chat-completion URL.
	Endpoint() string

	// Headers returns all request headers including authentication.
	Headers() map[string]string

	// SetExtraHeaders merges additional headers into every request.
	SetExtraHeaders(extraHeaders map[string]string)

	// PrepareRequest serializes a request body.
	PrepareRequest(req Request) ([]byte, error)

	// PrepareRequestWithSchema serializes a request body that constrains the
	// response to the given JSON schema. Only meaningful when
	// SupportsJSONSchema reports true.
	PrepareRequestWithSchema(req Request, schema map[string]any) ([]byte, error)

	// ParseResponse extracts the completion text from a response body.
	ParseResponse(body []byte) (string, error)

	// SupportsJSONSchema reports whether schema-constrained responses are
	// available.
	SupportsJSONSchema() bool
}

// Constructor builds a provider instance.
type Constructor func(apiKey, model string, extraHeaders map[string]string) Provider
