// Package config holds the runtime configuration for collaborator clients
// and the format search loop. Configuration is read from the environment and
// refined through functional options; nothing in the library reads ambient
// globals.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/promptlab/reformat/utils"
)

// Config carries collaborator and search settings. The zero temperature
// default keeps baseline responses reproducible, which every candidate score
// is measured against.
type Config struct {
	Provider            string         `env:"REFORMAT_PROVIDER" envDefault:"groq"`
	Model               string         `env:"REFORMAT_MODEL" envDefault:"llama-3.3-70b-versatile"`
	JudgeProvider       string         `env:"REFORMAT_JUDGE_PROVIDER"`
	JudgeModel          string         `env:"REFORMAT_JUDGE_MODEL" envDefault:"llama-3.3-70b-versatile"`
	OllamaEndpoint      string         `env:"OLLAMA_ENDPOINT" envDefault:"http://localhost:11434"`
	Temperature         float64        `env:"REFORMAT_TEMPERATURE" envDefault:"0" validate:"min=0,max=2"`
	Timeout             time.Duration  `env:"REFORMAT_TIMEOUT" envDefault:"30s"`
	MaxRetries          int            `env:"REFORMAT_MAX_RETRIES" envDefault:"3" validate:"min=0"`
	RetryDelay          time.Duration  `env:"REFORMAT_RETRY_DELAY" envDefault:"2s"`
	Iterations          int            `env:"REFORMAT_ITERATIONS" envDefault:"3" validate:"min=1"`
	Candidates          int            `env:"REFORMAT_CANDIDATES" envDefault:"10" validate:"min=1"`
	SimilarityThreshold float64        `env:"REFORMAT_SIMILARITY_THRESHOLD" envDefault:"0.95" validate:"min=0,max=1"`
	LogLevel            utils.LogLevel `env:"REFORMAT_LOG_LEVEL" envDefault:"WARN"`
	APIKeys             map[string]string
}

var validate = validator.New()

// LoadConfig reads configuration from the environment, including every
// *_API_KEY variable, keyed by lowercased provider name.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		APIKeys: make(map[string]string),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JudgeProvider == "" {
		cfg.JudgeProvider = cfg.Provider
	}

	loadAPIKeys(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAPIKeys(cfg *Config) {
	for _, envVar := range os.Environ() {
		key, value, found := strings.Cut(envVar, "=")
		if found && strings.HasSuffix(strings.ToUpper(key), "_API_KEY") {
			provider := strings.TrimSuffix(strings.ToUpper(key), "_API_KEY")
			cfg.APIKeys[strings.ToLower(provider)] = value
		}
	}
}

// ConfigOption mutates a Config during construction.
type ConfigOption func(*Config)

// NewConfig returns a Config with library defaults applied, refined by opts.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		Provider:            "groq",
		Model:               "llama-3.3-70b-versatile",
		JudgeProvider:       "groq",
		JudgeModel:          "llama-3.3-70b-versatile",
		OllamaEndpoint:      "http://localhost:11434",
		Temperature:         0,
		Timeout:             30 * time.Second,
		MaxRetries:          3,
		RetryDelay:          2 * time.Second,
		Iterations:          3,
		Candidates:          10,
		SimilarityThreshold: 0.95,
		LogLevel:            utils.LogLevelWarn,
		APIKeys:             make(map[string]string),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks the config against its validation tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func SetProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetJudgeProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.JudgeProvider = provider
	}
}

func SetJudgeModel(model string) ConfigOption {
	return func(c *Config) {
		c.JudgeModel = model
	}
}

func SetOllamaEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.OllamaEndpoint = endpoint
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		if c.APIKeys == nil {
			c.APIKeys = make(map[string]string)
		}
		c.APIKeys[c.Provider] = apiKey
	}
}

func SetTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

func SetRetryDelay(retryDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = retryDelay
	}
}

func SetIterations(iterations int) ConfigOption {
	return func(c *Config) {
		c.Iterations = iterations
	}
}

func SetCandidates(candidates int) ConfigOption {
	return func(c *Config) {
		c.Candidates = candidates
	}
}

func SetSimilarityThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.SimilarityThreshold = threshold
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}
