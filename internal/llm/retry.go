package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/drillz/internal/logger"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. Invalid output is retried once; context errors and truncated
// responses are returned immediately.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *logger.Logger

	// sleep waits for d or until ctx is done. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
	jitter func() float64 // in [0, 1)
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) *RetryProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{
		inner:  p,
		config: cfg,
		log:    logger.OrNop(log),
		sleep:  sleepContext,
		jitter: rand.Float64,
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidSeen := false

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Debug("retrying LLM request",
			"model", r.inner.ModelID(),
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before the next attempt. A rate limit with a
// RetryAfter hint is honoured as is.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*r.jitter() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
