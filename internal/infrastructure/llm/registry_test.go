package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DevInsights/internal/config"
	"DevInsights/internal/ports"
)

func TestDefaultRegistryBuildsProviders(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	assert.Equal(t, []string{"chatgpt", "gemini"}, reg.Names())

	cfg := config.Default().LLM
	cfg.Provider = "ChatGPT"
	gen, err := reg.Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ChatGPTClient{}, gen)

	cfg.Provider = config.ProviderGemini
	cfg.Gemini.APIKey = "key"
	gen, err = reg.Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, gen)
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	cfg := config.Default().LLM
	_, err := reg.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "init gemini")

	cfg.Provider = "bard"
	_, err = reg.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown llm provider")
	assert.ErrorContains(t, err, "chatgpt, gemini")
}

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, req ports.GenerateRequest) (string, error) {
	return req.Prompt, nil
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register("Echo", func(context.Context, config.LLMConfig) (ports.TextGenerator, error) {
		return echoGenerator{}, nil
	})

	gen, err := reg.Build(context.Background(), config.LLMConfig{Provider: "echo"})
	require.NoError(t, err)
	out, err := gen.Generate(context.Background(), ports.GenerateRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}
