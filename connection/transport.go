package connection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/adamwoolhether/esconn/connection/throttle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/adamwoolhether/esconn/connection"

// Transport dispatches a request to the engine. Implementations must be
// safe for concurrent use; a single Transport may serve many Connections.
// A non-2xx status is a valid Response, not an error.
type Transport interface {
	Dispatch(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the [Transport] interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Dispatch calls f(ctx, req).
func (f TransportFunc) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the default [Transport], backed by an [http.Client].
type HTTPTransport struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// DefaultTransport returns the process-wide shared transport, created on
// first use over a copy of [http.DefaultClient].
var DefaultTransport = sync.OnceValue(func() *HTTPTransport {
	t, _ := newHTTPTransport(options{})
	return t
})

// NewHTTPTransport builds a standalone [HTTPTransport] that can be shared by
// several connections through [WithTransport]. Only HTTP-level options
// (client, round tripper, timeout, user agent, throttle, logger, tracer
// provider) apply.
func NewHTTPTransport(optFns ...Option) (*HTTPTransport, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	if opts.transport != nil {
		return nil, fmt.Errorf("building http transport: WithTransport is not applicable")
	}

	return newHTTPTransport(opts)
}

func newHTTPTransport(opts options) (*HTTPTransport, error) {
	t := &HTTPTransport{
		logger: slog.Default(),
	}

	hc := *http.DefaultClient
	if opts.client != nil {
		hc = *opts.client
	}

	if opts.logger != nil {
		t.logger = opts.logger
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	t.tracer = tp.Tracer(instrumentationName)

	var rt http.RoundTripper
	switch {
	case opts.rt != nil:
		rt = opts.rt
	case hc.Transport != nil:
		rt = hc.Transport
	default:
		rt = http.DefaultTransport
	}
	if opts.userAgent != "" {
		rt = userAgent{value: opts.userAgent, base: rt}
	}
	if opts.throttle != nil {
		throttled, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return t.logger }, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = throttled
	}
	hc.Transport = rt
	t.c = &hc

	return t, nil
}

// Dispatch sends req and reads the whole response body.
func (t *HTTPTransport) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "engine "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
		),
	)
	defer span.End()

	var body io.Reader = http.NoBody
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range req.Header {
		for _, e := range v {
			hreq.Header.Add(k, e)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(hreq.Header))

	resp, err := t.c.Do(hreq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			t.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			t.logger.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading body failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, resp.Status)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       b,
		Request:    req,
	}, nil
}
