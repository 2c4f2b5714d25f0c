package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// MockProvider implements Provider for tests. It echoes requests into a
// deterministic local "wire" format and replays a queue of preset responses.
type MockProvider struct {
	mu           sync.Mutex
	model        string
	extraHeaders map[string]string

	responseText  string
	responses     []string
	currentIndex  int
	loopResponses bool
	shouldError   bool
	errorMsg      string
	requests      []Request
}

// NewMockProvider creates a mock provider instance for testing.
func NewMockProvider(_, model string, extraHeaders map[string]string) Provider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &MockProvider{
		model:        model,
		extraHeaders: extraHeaders,
		responseText: "This is a mock response",
	}
}

// SetMockResponse configures the fallback response text.
func (p *MockProvider) SetMockResponse(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responseText = response
}

// SetResponses configures a queue of responses returned in sequence.
func (p *MockProvider) SetResponses(responses []string, loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = responses
	p.currentIndex = 0
	p.loopResponses = loop
}

// SetMockError makes every request preparation fail.
func (p *MockProvider) SetMockError(shouldError bool, errorMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shouldError = shouldError
	p.errorMsg = errorMsg
}

// Requests returns every request prepared so far.
func (p *MockProvider) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Request, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Endpoint() string { return "http://localhost/mock" }

func (p *MockProvider) Headers() map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *MockProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extraHeaders = extraHeaders
}

func (p *MockProvider) SupportsJSONSchema() bool { return false }

func (p *MockProvider) PrepareRequest(req Request) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shouldError {
		return nil, errors.New(p.errorMsg)
	}
	p.requests = append(p.requests, req)
	return json.Marshal(map[string]any{
		"model":       p.model,
		"system":      req.System,
		"user":        req.User,
		"temperature": req.Temperature,
	})
}

func (p *MockProvider) PrepareRequestWithSchema(req Request, _ map[string]any) ([]byte, error) {
	return p.PrepareRequest(req)
}

func (p *MockProvider) ParseResponse(body []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.responses) == 0 {
		return p.responseText, nil
	}
	if p.currentIndex >= len(p.responses) {
		if !p.loopResponses {
			return "", fmt.Errorf("mock: response queue exhausted after %d responses", len(p.responses))
		}
		p.currentIndex = 0
	}
	response := p.responses[p.currentIndex]
	p.currentIndex++
	return response, nil
}
