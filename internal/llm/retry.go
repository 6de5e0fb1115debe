package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

type retrying struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry retries transient failures of p with exponential backoff and
// ±20% jitter. A rate limit with a RetryAfter hint waits exactly that long.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrying{inner: p, cfg: cfg}
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		invalidSeen bool
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == r.cfg.MaxAttempts-1 {
			break
		}

		t := time.NewTimer(r.wait(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *retrying) ModelID() string { return r.inner.ModelID() }

func (r *retrying) wait(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

type timeout struct {
	inner Provider
	d     time.Duration
}

// WithTimeout bounds every Generate call of p to d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeout{inner: p, d: d}
}

func (t *timeout) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeout) ModelID() string { return t.inner.ModelID() }
