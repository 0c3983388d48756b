package summarizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackSummarizer tries providers in order, skipping those with open circuits.
// It implements port.Summarizer.
type FallbackSummarizer struct {
	summarizers []port.Summarizer
	circuits    []*circuitState
	names       []string
}

// NewFallbackSummarizer creates a FallbackSummarizer from an ordered list of providers and their names.
func NewFallbackSummarizer(summarizers []port.Summarizer, names []string) *FallbackSummarizer {
	circuits := make([]*circuitState, len(summarizers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackSummarizer{
		summarizers: summarizers,
		circuits:    circuits,
		names:       names,
	}
}

// Names returns the provider names in fallback order.
func (f *FallbackSummarizer) Names() []string {
	return f.names
}

func (f *FallbackSummarizer) Summarize(ctx context.Context, text string) (*domain.Summary, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, s := range f.summarizers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			zap.L().Info("summarizer: skipping provider, circuit open",
				zap.String("provider", f.names[i]),
				zap.Time("reset_at", resetAt),
			)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		started := time.Now()
		out, err := s.Summarize(ctx, text)
		elapsed := time.Since(started)
		if err == nil {
			fields := []zap.Field{
				zap.String("provider", f.names[i]),
				zap.Duration("elapsed", elapsed),
				zap.Int("chars", len(text)),
			}
			if out != nil {
				fields = append(fields, zap.String("model", out.Model), zap.Bool("empty", out.Markdown == ""))
			}
			zap.L().Info("summarizer: analysis completed", fields...)
			return out, nil
		}

		zap.L().Warn("summarizer: provider failed",
			zap.String("provider", f.names[i]),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		lastErr = err

		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			allRateLimited = false
			continue
		}
		var rlErr *domain.RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, domain.NewRateLimitError("all", fmt.Errorf("all summarizers rate limited"), int(retryAfter.Seconds()))
	}

	if len(f.summarizers) == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("all summarizers failed: %w", lastErr)
}
