package throttle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the throttler's
// Requests Per Second and Burst Rate
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are positive.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

type weightKey struct{}

// WithWeight returns a context charging n tokens to any throttled
// request made with it. Values below one are treated as one.
func WithWeight(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, weightKey{}, n)
}

func weight(ctx context.Context) int {
	n, ok := ctx.Value(weightKey{}).(int)
	if !ok || n < 1 {
		return 1
	}

	return n
}

// throttle is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict calls to the engine.
type throttle struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// NewRoundTripper returns an http.RoundTripper that throttles engine requests
// using a token bucket rate limiter. logFn lazily resolves the logger at request
// time, making option ordering irrelevant. A nil-returning logFn skips the
// exhaustion logging.
func NewRoundTripper(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	t := &throttle{
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:     cfg,
		next:    next,
		logFn:   logFn,
	}

	return t, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	tokens := min(weight(ctx), t.cfg.Burst)

	var waited time.Duration
	if logger := t.logFn(); logger != nil {
		if t.limiter.AllowN(time.Now(), tokens) {
			return t.next.RoundTrip(r)
		}

		logger.Info("engine throttle tokens exhausted", "rate", t.cfg.RPS, "burst", t.cfg.Burst, "tokens", tokens, "method", r.Method, "path", r.URL.Path)

		defer func() {
			logger.Info("engine throttle wait complete", "waited", waited.String(), "tokens", tokens, "path", r.URL.Path)
		}()
	}

	start := time.Now()

	err := t.limiter.WaitN(ctx, tokens)
	waited = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
