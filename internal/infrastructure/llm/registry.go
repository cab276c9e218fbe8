package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"DevInsights/internal/config"
	"DevInsights/internal/ports"
)

// Factory builds a text generator from the model section of the configuration.
type Factory func(ctx context.Context, cfg config.LLMConfig) (ports.TextGenerator, error)

// Registry keeps a mapping from provider names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry knows the gemini and chatgpt providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(config.ProviderGemini, func(ctx context.Context, cfg config.LLMConfig) (ports.TextGenerator, error) {
		return NewGeminiClient(ctx, cfg.Gemini)
	})
	r.Register(config.ProviderChatGPT, func(_ context.Context, cfg config.LLMConfig) (ports.TextGenerator, error) {
		return NewChatGPTClient(cfg.ChatGPT), nil
	})
	return r
}

// Register adds or replaces a provider factory.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[strings.ToLower(name)] = factory
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves cfg.Provider and constructs its generator.
func (r *Registry) Build(ctx context.Context, cfg config.LLMConfig) (ports.TextGenerator, error) {
	factory, ok := r.factories[strings.ToLower(cfg.Provider)]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider %q (known: %s)", cfg.Provider, strings.Join(r.Names(), ", "))
	}

	generator, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.Provider, err)
	}
	return generator, nil
}
