package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/reformat/config"
	"github.com/promptlab/reformat/providers"
	"github.com/promptlab/reformat/utils"
)

// testProvider speaks a minimal JSON wire format against an httptest server.
type testProvider struct {
	endpoint      string
	schemaSupport bool
	lastSchema    map[string]any
}

func (p *testProvider) Name() string { return "test" }

func (p *testProvider) Endpoint() string { return p.endpoint }

func (p *testProvider) SetExtraHeaders(map[string]string) {}

func (p *testProvider) SupportsJSONSchema() bool { return p.schemaSupport }

func (p *testProvider) Headers() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func (p *testProvider) PrepareRequest(req providers.Request) ([]byte, error) {
	return json.Marshal(map[string]any{"system": req.System, "user": req.User})
}

func (p *testProvider) PrepareRequestWithSchema(req providers.Request, schema map[string]any) ([]byte, error) {
	p.lastSchema = schema
	return p.PrepareRequest(req)
}

func (p *testProvider) ParseResponse(body []byte) (string, error) {
	var response struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Error != "" {
		return "", errors.New(response.Error)
	}
	return response.Text, nil
}

func newTestClient(t *testing.T, endpoint string, schemaSupport bool, maxRetries int) (*HTTPClient, *testProvider) {
	t.Helper()

	provider := &testProvider{endpoint: endpoint, schemaSupport: schemaSupport}
	registry := providers.NewRegistry("mock")
	registry.Register("test", func(_, _ string, _ map[string]string) providers.Provider {
		return provider
	})

	cfg := config.NewConfig(
		config.SetProvider("test"),
		config.SetModel("test-model"),
		config.SetMaxRetries(maxRetries),
		config.SetRetryDelay(time.Millisecond),
	)
	client, err := NewClientFor(cfg, "test", "test-model", utils.NewLogger(utils.LogLevelOff), registry)
	require.NoError(t, err)
	return client, provider
}

func TestClientComplete(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprint(w, `{"text":"pong"}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, false, 0)

	response, err := client.Complete(context.Background(), "be brief", "ping", 0)
	require.NoError(t, err)
	assert.Equal(t, "pong", response)
	assert.Equal(t, "ping", received["user"])
	assert.Equal(t, "be brief", received["system"])
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"text":"recovered"}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, false, 2)

	response, err := client.Complete(context.Background(), "", "ping", 0)
	require.NoError(t, err)
	assert.Equal(t, "recovered", response)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, false, 2)

	_, err := client.Complete(context.Background(), "", "ping", 0)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorTypeAPI, clientErr.Type)
}

func TestClientAuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, false, 0)

	_, err := client.Complete(context.Background(), "", "ping", 0)
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorTypeAuthentication, clientErr.Type)
}

func TestClientRateLimitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, false, 0)

	_, err := client.Complete(context.Background(), "", "ping", 0)
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorTypeRateLimit, clientErr.Type)
}

func TestClientCompleteWithSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"text":"{\"score\": 0.5}"}`)
	}))
	defer server.Close()

	type scored struct {
		Score float64 `json:"score"`
	}

	t.Run("schema passed to provider", func(t *testing.T) {
		client, provider := newTestClient(t, server.URL, true, 0)

		_, err := client.CompleteWithSchema(context.Background(), "", "rate this", 0, &scored{})
		require.NoError(t, err)
		require.NotNil(t, provider.lastSchema)
		assert.Contains(t, provider.lastSchema, "properties")
	})

	t.Run("falls back to plain completion", func(t *testing.T) {
		client, provider := newTestClient(t, server.URL, false, 0)

		_, err := client.CompleteWithSchema(context.Background(), "", "rate this", 0, &scored{})
		require.NoError(t, err)
		assert.Nil(t, provider.lastSchema)
	})
}

func TestClientUnknownProvider(t *testing.T) {
	cfg := config.NewConfig(config.SetProvider("nope"))
	_, err := NewClient(cfg, utils.NewLogger(utils.LogLevelOff), providers.NewRegistry())
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorTypeProvider, clientErr.Type)
}

func TestClientModel(t *testing.T) {
	client := NewClientWithProvider(providers.NewMockProvider("", "mock-model", nil), "mock-model", utils.NewLogger(utils.LogLevelOff))
	assert.Equal(t, "mock-model", client.Model())
	assert.False(t, client.SupportsJSONSchema())
}
