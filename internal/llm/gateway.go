package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/notq/speech-backend/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	maxRetries       int
}

func NewGateway(cfg config.LLMConfig) Gateway {
	g := &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
	}

	if cfg.DeepSeekKey != "" {
		g.providers["deepseek"] = NewDeepSeekProvider(cfg.DeepSeekKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel)
	}

	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	resp, err := g.chatWithRetry(ctx, providerName, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != providerName {
		slog.Warn("primary provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.chatWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *gateway) chatWithRetry(ctx context.Context, providerName string, req ChatRequest) (*ChatResponse, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second

	attempt := 0
	resp, err := backoff.RetryWithData(func() (*ChatResponse, error) {
		if attempt > 0 {
			slog.Debug("retrying LLM call", "provider", providerName, "attempt", attempt)
		}
		attempt++
		return p.ChatCompletion(ctx, req)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(g.maxRetries)), ctx))
	if err != nil {
		return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, err)
	}
	return resp, nil
}

func (g *gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, p := range g.providers {
		for _, m := range p.Models() {
			models = append(models, ModelInfo{
				Provider: p.Name(),
				Model:    m,
			})
		}
	}
	return models
}
