package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages provider constructors with thread-safe registration and
// lookup.
type Registry struct {
	constructors map[string]Constructor
	mutex        sync.RWMutex
}

// NewRegistry creates a registry holding the named providers, or all known
// providers when no names are given.
func NewRegistry(providerNames ...string) *Registry {
	registry := &Registry{
		constructors: make(map[string]Constructor),
	}

	known := knownProviders()
	if len(providerNames) == 0 {
		for name, constructor := range known {
			registry.constructors[name] = constructor
		}
		return registry
	}

	for _, name := range providerNames {
		if constructor, ok := known[name]; ok {
			registry.constructors[name] = constructor
		}
	}
	return registry
}

func knownProviders() map[string]Constructor {
	return map[string]Constructor{
		"openai":    NewOpenAIProvider,
		"groq":      NewGroqProvider,
		"anthropic": NewAnthropicProvider,
		"ollama":    NewOllamaProvider,
		"mock":      NewMockProvider,
	}
}

// Register adds or replaces a provider constructor.
func (r *Registry) Register(name string, constructor Constructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.constructors[name] = constructor
}

// Names returns the sorted names of registered providers.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get constructs a provider instance by name.
func (r *Registry) Get(name, apiKey, model string, extraHeaders map[string]string) (Provider, error) {
	r.mutex.RLock()
	constructor, ok := r.constructors[name]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
	return constructor(apiKey, model, extraHeaders), nil
}
