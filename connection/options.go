package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/esconn/connection/throttle"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Connection] via [New],
// [FromURI] or [FromConfig], and an [HTTPTransport] via [NewHTTPTransport].
type Option func(*options) error
type options struct {
	transport      Transport
	client         *http.Client
	rt             http.RoundTripper
	timeout        *time.Duration
	userAgent      string
	throttle       *throttle.Config
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	opaqueIDs      bool
	headers        http.Header
	scheme         string
}

// httpLevel reports whether any option shapes the HTTP stack, in which
// case the connection gets its own HTTPTransport instead of the shared one.
func (o *options) httpLevel() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" ||
		o.throttle != nil || o.tracerProvider != nil
}

func applyOptions(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, fmt.Errorf("applying connection option: %w", err)
		}
	}

	return opts, nil
}

// WithTransport routes every request through t instead of the default
// HTTP transport. It cannot be combined with options that configure the
// HTTP stack.
func WithTransport(t Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient replaces the [http.Client] used by the default transport.
// The client is copied; later changes to hc are not observed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall per-request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all engine requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
// A batched multi-search is charged one token per search it carries.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracerProvider records a client span per request with tp instead of
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// WithOpaqueIDs tags every request with a fresh X-Opaque-Id header so it
// can be correlated with the engine's task and slow logs.
func WithOpaqueIDs() Option {
	return func(c *options) error {
		c.opaqueIDs = true
		return nil
	}
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers http.Header) Option {
	return func(c *options) error {
		if c.headers == nil {
			c.headers = make(http.Header, len(headers))
		}
		for k, v := range headers {
			for _, e := range v {
				c.headers.Add(k, e)
			}
		}
		return nil
	}
}

// WithScheme sets the scheme used by [New]; it defaults to "http".
// [FromURI] takes the scheme from the URI instead.
func WithScheme(scheme string) Option {
	return func(c *options) error {
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("unsupported scheme %q", scheme)
		}
		c.scheme = scheme
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
