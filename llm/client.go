// Package llm provides the collaborator client used by the search loop: a
// blocking request/response chat-completion call against a configured
// provider, with retries on transient failures.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promptlab/reformat/config"
	"github.com/promptlab/reformat/providers"
	"github.com/promptlab/reformat/utils"
)

// Client is the completion-producing collaborator interface. The core is
// agnostic to which provider implements it. Determinism at temperature 0 is
// assumed for baseline reproducibility but not enforced here.
type Client interface {
	// Complete sends one system+user exchange and returns the response text.
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)

	// CompleteWithSchema constrains the response to the JSON schema derived
	// from v. Falls back to a plain completion when the provider cannot
	// constrain output.
	CompleteWithSchema(ctx context.Context, system, user string, temperature float64, v any) (string, error)

	// SupportsJSONSchema reports whether schema-constrained responses are
	// honored rather than emulated.
	SupportsJSONSchema() bool

	// Model returns the configured model name.
	Model() string
}

// HTTPClient implements Client over a provider adapter.
type HTTPClient struct {
	provider   providers.Provider
	model      string
	client     *http.Client
	logger     utils.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewClient builds a client for cfg's primary provider and model.
func NewClient(cfg *config.Config, logger utils.Logger, registry *providers.Registry) (*HTTPClient, error) {
	return NewClientFor(cfg, cfg.Provider, cfg.Model, logger, registry)
}

// NewJudgeClient builds a client for cfg's judge provider and model.
func NewJudgeClient(cfg *config.Config, logger utils.Logger, registry *providers.Registry) (*HTTPClient, error) {
	return NewClientFor(cfg, cfg.JudgeProvider, cfg.JudgeModel, logger, registry)
}

// NewClientFor builds a client for an explicit provider and model pair,
// resolving the API key (or, for ollama, the endpoint) from cfg.
func NewClientFor(cfg *config.Config, providerName, model string, logger utils.Logger, registry *providers.Registry) (*HTTPClient, error) {
	apiKey := cfg.APIKeys[providerName]
	if providerName == "ollama" {
		apiKey = cfg.OllamaEndpoint
	}

	provider, err := registry.Get(providerName, apiKey, model, nil)
	if err != nil {
		return nil, NewClientError(ErrorTypeProvider, "failed to resolve provider", err)
	}

	return &HTTPClient{
		provider:   provider,
		model:      model,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// NewClientWithProvider wraps an already constructed provider, used by tests.
func NewClientWithProvider(provider providers.Provider, model string, logger utils.Logger) *HTTPClient {
	return &HTTPClient{
		provider:   provider,
		model:      model,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		maxRetries: 0,
		retryDelay: time.Second,
	}
}

func (c *HTTPClient) Model() string {
	return c.model
}

func (c *HTTPClient) SupportsJSONSchema() bool {
	return c.provider.SupportsJSONSchema()
}

func (c *HTTPClient) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	req := providers.Request{System: system, User: user, Temperature: temperature}
	body, err := c.provider.PrepareRequest(req)
	if err != nil {
		return "", NewClientError(ErrorTypeRequest, "failed to prepare request", err)
	}
	return c.send(ctx, body)
}

func (c *HTTPClient) CompleteWithSchema(ctx context.Context, system, user string, temperature float64, v any) (string, error) {
	if !c.provider.SupportsJSONSchema() {
		return c.Complete(ctx, system, user, temperature)
	}

	schema, err := GenerateSchema(v)
	if err != nil {
		return "", NewClientError(ErrorTypeInvalidInput, "failed to generate schema", err)
	}

	req := providers.Request{System: system, User: user, Temperature: temperature}
	body, err := c.provider.PrepareRequestWithSchema(req, schema)
	if err != nil {
		return "", NewClientError(ErrorTypeRequest, "failed to prepare schema request", err)
	}
	return c.send(ctx, body)
}

// send posts the prepared body, retrying transient failures up to
// maxRetries times with retryDelay between attempts.
func (c *HTTPClient) send(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		c.logger.Debug("Sending collaborator request", "provider", c.provider.Name(), "model", c.model, "attempt", attempt+1)

		result, err := c.attempt(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err

		c.logger.Warn("Collaborator request failed", "error", err, "attempt", attempt+1)
		if attempt < c.maxRetries {
			if err := c.wait(ctx); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("collaborator call failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *HTTPClient) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.retryDelay):
		return nil
	}
}

func (c *HTTPClient) attempt(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", NewClientError(ErrorTypeRequest, "failed to create request", err)
	}
	for k, v := range c.provider.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewClientError(ErrorTypeRequest, "failed to send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewClientError(ErrorTypeResponse, "failed to read response body", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", NewClientError(ErrorTypeRateLimit, "rate limited", nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", NewClientError(ErrorTypeAuthentication, fmt.Sprintf("authentication failed: status %d", resp.StatusCode), nil)
	default:
		c.logger.Error("API error", "provider", c.provider.Name(), "status", resp.StatusCode, "body", string(respBody))
		return "", NewClientError(ErrorTypeAPI, fmt.Sprintf("API error: status code %d", resp.StatusCode), nil)
	}

	result, err := c.provider.ParseResponse(respBody)
	if err != nil {
		return "", NewClientError(ErrorTypeResponse, "failed to parse response", err)
	}
	return result, nil
}
