package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Gateway turns catalog actions into prompts and runs them on the model
type Gateway struct {
	backend Generator
	fetcher PageFetcher
	logger  zerolog.Logger
}

// NewGateway creates a gateway over a model backend and a page fetcher
func NewGateway(backend Generator, fetcher PageFetcher, logger zerolog.Logger) *Gateway {
	return &Gateway{backend: backend, fetcher: fetcher, logger: logger}
}

// Execute runs one action and returns the model's raw text. Missing backend
// configuration is reported before any page is fetched.
func (g *Gateway) Execute(ctx context.Context, action Action) (string, error) {
	log := g.logger.With().Str("action", action.Name()).Logger()
	started := time.Now()

	if err := g.backend.Ready(); err != nil {
		log.Error().Err(err).Msg("AI backend not configured")
		return "", err
	}

	prompt, err := action.prompt(ctx, g.fetcher)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build prompt")
		return "", err
	}

	result, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("AI request failed")
		return "", err
	}

	log.Info().Dur("elapsed", time.Since(started)).Int("result_len", len(result)).Msg("AI request completed")
	return result, nil
}

// Run parses a named action with its JSON payload and executes it
func (g *Gateway) Run(ctx context.Context, name string, payload json.RawMessage) (string, error) {
	action, err := ParseAction(name, payload)
	if err != nil {
		g.logger.Warn().Err(err).Str("action", name).Msg("Rejected AI request")
		return "", err
	}
	return g.Execute(ctx, action)
}

// Invoke lets the gateway serve as an in-process Invoker
func (g *Gateway) Invoke(ctx context.Context, name string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return g.Run(ctx, name, raw)
}
