package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	maxAttempts   = 3
	retryBackoff  = 2 * time.Second
	maxConcurrent = 3
)

// UsageRecorder receives call/token/cost telemetry for every successful
// provider call. Recording happens off the main result path; a recording
// failure never fails the generation.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, provider Provider, tokens int, cost float64) error
}

// Manager owns the provider adapters. Every provider call in the process is
// issued through one Manager instance so the concurrency cap holds globally.
type Manager struct {
	clients map[Provider]Client
	usage   UsageRecorder
	sem     chan struct{}
	backoff time.Duration
}

// NewManager builds a Manager over the given adapters. usage may be nil.
func NewManager(clients []Client, usage UsageRecorder) *Manager {
	m := &Manager{
		clients: make(map[Provider]Client, len(clients)),
		usage:   usage,
		sem:     make(chan struct{}, maxConcurrent),
		backoff: retryBackoff,
	}
	for _, c := range clients {
		m.clients[c.Provider()] = c
	}
	return m
}

// Generate runs one provider call with retries: 3 total attempts with a fixed
// backoff between them. All adapter errors are retried the same way since
// providers do not reliably distinguish transient from permanent failures.
// After exhaustion the last error is returned wrapped with a provider/model
// prefix.
func (m *Manager) Generate(ctx context.Context, prompt string, cfg ModelConfig) (*GenerationResult, error) {
	client, ok := m.clients[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%s/%s: no client configured for provider", cfg.Provider, cfg.Model)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			slog.Warn("retrying generation", "provider", cfg.Provider, "model", cfg.Model, "attempt", attempt)
			select {
			case <-time.After(m.backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%s/%s: %w", cfg.Provider, cfg.Model, ctx.Err())
			}
		}

		result, err := m.invoke(ctx, client, prompt, cfg)
		if err == nil {
			m.recordUsage(ctx, cfg, result.Usage)
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%s/%s: %w", cfg.Provider, cfg.Model, lastErr)
}

// GenerateMultiple fans Generate out over every config and lets each call
// settle independently: a slot whose retries are exhausted becomes a result
// with Error set and empty Content, without cancelling its siblings. The
// returned slice is index-aligned with cfgs regardless of completion order.
func (m *Manager) GenerateMultiple(ctx context.Context, prompt string, cfgs []ModelConfig) []GenerationResult {
	results := make([]GenerationResult, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(i int, cfg ModelConfig) {
			defer wg.Done()
			result, err := m.Generate(ctx, prompt, cfg)
			if err != nil {
				results[i] = GenerationResult{Provider: cfg.Provider, Model: cfg.Model, Error: err.Error()}
				return
			}
			results[i] = *result
		}(i, cfg)
	}
	wg.Wait()

	return results
}

// invoke issues a single adapter call under the shared semaphore. The
// semaphore wraps each attempt individually so retries do not hold a slot
// while backing off.
func (m *Manager) invoke(ctx context.Context, client Client, prompt string, cfg ModelConfig) (*GenerationResult, error) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.sem }()

	return client.Invoke(ctx, prompt, cfg)
}

func (m *Manager) recordUsage(ctx context.Context, cfg ModelConfig, usage *Usage) {
	if m.usage == nil || usage == nil {
		return
	}
	tokens := usage.InputTokens + usage.OutputTokens
	if err := m.usage.RecordUsage(ctx, cfg.Provider, tokens, CostFor(cfg, usage)); err != nil {
		slog.Error("error recording API usage", "error", err, "provider", cfg.Provider)
	}
}
