package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/reformat/utils"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Model)
	assert.Equal(t, "groq", cfg.JudgeProvider)
	assert.Equal(t, 0.0, cfg.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.Iterations)
	assert.Equal(t, 10, cfg.Candidates)
	assert.Equal(t, 0.95, cfg.SimilarityThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		SetProvider("openai"),
		SetModel("gpt-4o-mini"),
		SetAPIKey("sk-test"),
		SetJudgeProvider("anthropic"),
		SetJudgeModel("claude-sonnet"),
		SetTemperature(0.5),
		SetMaxRetries(1),
		SetIterations(5),
		SetCandidates(2),
		SetLogLevel(utils.LogLevelDebug),
	)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKeys["openai"])
	assert.Equal(t, "anthropic", cfg.JudgeProvider)
	assert.Equal(t, "claude-sonnet", cfg.JudgeModel)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, 2, cfg.Candidates)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(SetTemperature(3))
	require.Error(t, cfg.Validate())

	cfg = NewConfig(SetIterations(0))
	require.Error(t, cfg.Validate())

	cfg = NewConfig(SetSimilarityThreshold(1.5))
	require.Error(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("REFORMAT_PROVIDER", "openai")
	t.Setenv("REFORMAT_MODEL", "gpt-4o")
	t.Setenv("REFORMAT_ITERATIONS", "5")
	t.Setenv("REFORMAT_LOG_LEVEL", "DEBUG")
	t.Setenv("OPENAI_API_KEY", "sk-env-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "openai", cfg.JudgeProvider, "judge defaults to the primary provider")
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "sk-env-test", cfg.APIKeys["openai"])
}

func TestLoadConfigJudgeOverride(t *testing.T) {
	t.Setenv("REFORMAT_PROVIDER", "groq")
	t.Setenv("REFORMAT_JUDGE_PROVIDER", "anthropic")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.JudgeProvider)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("REFORMAT_TEMPERATURE", "5")

	_, err := LoadConfig()
	require.Error(t, err)
}
