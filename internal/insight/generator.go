// Package insight annotates scraped profiles with language-model analysis.
package insight

import (
	"context"
	"errors"
	"log/slog"

	"DevInsights/internal/domain"
	apperrors "DevInsights/internal/errors"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
	"DevInsights/internal/throttle"
)

const (
	// ResponseMIMEType asks the model for a JSON body.
	ResponseMIMEType   = "application/json"
	defaultTemperature = 0.1
)

// Generator calls a TextGenerator once per profile, sequentially.
type Generator struct {
	llm         ports.TextGenerator
	throttle    ports.Throttle
	temperature float32
	maxAttempts int
	logger      *slog.Logger
}

var _ ports.ProfileAnalyzer = (*Generator)(nil)

// Options tunes a Generator. Zero values mean temperature 0.1, one attempt and no throttle.
type Options struct {
	Temperature float32
	MaxAttempts int
	Throttle    ports.Throttle
	Logger      *slog.Logger
}

// NewGenerator wires the model client.
func NewGenerator(llm ports.TextGenerator, opts Options) *Generator {
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Generator{
		llm:         llm,
		throttle:    throttle.OrNone(opts.Throttle),
		temperature: temperature,
		maxAttempts: attempts,
		logger:      logging.OrDiscard(opts.Logger),
	}
}

// AnalyzeAll returns one profile per input, in order. Failures are recorded on the profile.
func (g *Generator) AnalyzeAll(ctx context.Context, profiles []domain.Profile) []domain.Profile {
	out := make([]domain.Profile, 0, len(profiles))
	for i, profile := range profiles {
		g.logger.Info("analyzing profile", "index", i+1, "total", len(profiles), "user", profile.Name())
		out = append(out, g.Analyze(ctx, profile))
	}
	return out
}

// Analyze returns profile with either AIAnalysis set or Error describing the failure.
// Profiles that already failed scraping are returned untouched.
func (g *Generator) Analyze(ctx context.Context, profile domain.Profile) domain.Profile {
	if profile.Failed() {
		g.logger.Debug("skip failed profile", "user", profile.Name())
		return profile
	}

	analysis, err := g.analyze(ctx, profile)
	if err != nil {
		appErr := new(apperrors.AppError)
		msg := "AI request failed"
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		g.logger.Error("analyze profile", "user", profile.Name(), "error", err)
		return profile.WithError(msg)
	}

	profile.AIAnalysis = analysis
	return profile
}

func (g *Generator) analyze(ctx context.Context, profile domain.Profile) (domain.AnalysisResult, error) {
	prompt, err := BuildPrompt(profile)
	if err != nil {
		return nil, apperrors.NewAIRequestError(err)
	}

	req := ports.GenerateRequest{
		Prompt:           prompt,
		ResponseMIMEType: ResponseMIMEType,
		Temperature:      g.temperature,
	}

	var reply string
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err = g.throttle.Wait(ctx); err != nil {
			return nil, apperrors.NewAIRequestError(err)
		}

		reply, err = g.llm.Generate(ctx, req)
		if err == nil {
			break
		}
		g.logger.Warn("ai request attempt failed", "user", profile.Name(), "attempt", attempt, "error", err)
	}
	if err != nil {
		return nil, apperrors.NewAIRequestError(err)
	}

	analysis, err := ParseAnalysis(reply)
	if err != nil {
		return nil, apperrors.NewAIParseError(err)
	}
	return analysis, nil
}
