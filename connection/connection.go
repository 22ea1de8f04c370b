package connection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adamwoolhether/esconn/connection/bulk"
	"github.com/adamwoolhether/esconn/connection/endpoint"
	"github.com/adamwoolhether/esconn/connection/throttle"
	"github.com/google/uuid"
)

// Params are rendered into a request's query string.
type Params = endpoint.Params

const (
	contentTypeJSON = "application/json"
	headerOpaqueID  = "X-Opaque-Id"
)

// matchAll is the body sent by Search when none is given.
var matchAll = []byte(`{"query":{"match_all":{}}}`)

// Connection talks to one engine endpoint. Every network operation
// returns a [Future] immediately and runs on its own goroutine.
// A Connection is safe for concurrent use.
type Connection struct {
	scheme  string
	host    string
	port    int
	baseURL *url.URL

	transport Transport
	bulk      bulk.Accumulator
	logger    *slog.Logger
	headers   http.Header
	opaqueIDs bool
}

// New builds a Connection to host:port. A port of 0 leaves the port out
// of the base URL. The scheme defaults to "http", see [WithScheme].
func New(host string, port int, optFns ...Option) (*Connection, error) {
	if host == "" {
		return nil, errors.New("host must not be empty")
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("port %d out of range", port)
	}

	return build("", host, port, optFns)
}

func build(scheme, host string, port int, optFns []Option) (*Connection, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.scheme != "" && scheme == "":
		scheme = opts.scheme
	case scheme == "":
		scheme = "http"
	}

	authority := host
	if port != 0 {
		authority = net.JoinHostPort(host, strconv.Itoa(port))
	} else if strings.Contains(host, ":") {
		authority = "[" + host + "]"
	}

	c := Connection{
		scheme:    scheme,
		host:      host,
		port:      port,
		baseURL:   &url.URL{Scheme: scheme, Host: authority},
		logger:    slog.Default(),
		headers:   opts.headers,
		opaqueIDs: opts.opaqueIDs,
	}

	if opts.logger != nil {
		c.logger = opts.logger
	}

	switch {
	case opts.transport != nil && opts.httpLevel():
		return nil, errors.New("WithTransport cannot be combined with HTTP client options")
	case opts.transport != nil:
		c.transport = opts.transport
	case opts.httpLevel():
		t, err := newHTTPTransport(opts)
		if err != nil {
			return nil, fmt.Errorf("building http transport: %w", err)
		}
		c.transport = t
	default:
		c.transport = DefaultTransport()
	}

	return &c, nil
}

// URL returns the canonical base URL, scheme://host[:port] without a trailing slash.
func (c *Connection) URL() string { return c.baseURL.String() }

// Host returns the engine host.
func (c *Connection) Host() string { return c.host }

// Port returns the engine port, 0 when none was given.
func (c *Connection) Port() int { return c.port }

// Scheme returns "http" or "https".
func (c *Connection) Scheme() string { return c.scheme }

// GetByPath sends GET path unmodified. path may carry its own query string.
func (c *Connection) GetByPath(ctx context.Context, path string) *Future {
	return c.do(ctx, http.MethodGet, endpoint.Raw, endpoint.Target{Path: path}, nil, nil)
}

// Search runs a single search. An empty index or typ searches across all
// of them; a nil body matches every document.
func (c *Connection) Search(ctx context.Context, index, typ string, body any, params Params) *Future {
	b, err := bulk.Encode(body)
	if err != nil {
		return failedFuture(fmt.Errorf("encoding search body: %w", err))
	}
	if b == nil {
		b = matchAll
	}

	return c.do(ctx, http.MethodPost, endpoint.Search, endpoint.Target{Index: index, Type: typ}, params, b)
}

// Count counts matching documents. source, when not nil, is sent as the
// request body; its shape depends on the engine's dialect, see [CountSource].
func (c *Connection) Count(ctx context.Context, index, typ string, source any, params Params) *Future {
	b, err := bulk.Encode(source)
	if err != nil {
		return failedFuture(fmt.Errorf("encoding count source: %w", err))
	}

	method := http.MethodGet
	if b != nil {
		method = http.MethodPost
	}

	return c.do(ctx, method, endpoint.Count, endpoint.Target{Index: index, Type: typ}, params, b)
}

// Get fetches a single document. Pass id as stored, unescaped; it is
// path-escaped when the URL is built, so an escaped id is escaped twice.
func (c *Connection) Get(ctx context.Context, index, typ, id string) *Future {
	return c.do(ctx, http.MethodGet, endpoint.Document, endpoint.Target{Index: index, Type: typ, ID: id}, nil, nil)
}

// Put writes contents as the document's source. id is passed unescaped, see [Connection.Get].
func (c *Connection) Put(ctx context.Context, index, typ, id string, contents any, params Params) *Future {
	b, err := bulk.Encode(contents)
	if err != nil {
		return failedFuture(fmt.Errorf("encoding document: %w", err))
	}

	return c.do(ctx, http.MethodPut, endpoint.Document, endpoint.Target{Index: index, Type: typ, ID: id}, params, b)
}

// Update merges contents into the stored document. id is passed unescaped.
func (c *Connection) Update(ctx context.Context, index, typ, id string, contents any) *Future {
	b, err := bulk.Encode(struct {
		Doc any `json:"doc"`
	}{Doc: contents})
	if err != nil {
		return failedFuture(fmt.Errorf("encoding partial document: %w", err))
	}

	return c.do(ctx, http.MethodPost, endpoint.Update, endpoint.Target{Index: index, Type: typ, ID: id}, nil, b)
}

// Delete removes a document. id is passed unescaped.
func (c *Connection) Delete(ctx context.Context, index, typ, id string, params Params) *Future {
	return c.do(ctx, http.MethodDelete, endpoint.Document, endpoint.Target{Index: index, Type: typ, ID: id}, params, nil)
}

// MultiSearch queues a search for the next ApplySearch. It sends nothing.
// An empty index searches across all indices.
func (c *Connection) MultiSearch(index string, body any) error {
	return c.bulk.Add(index, body)
}

// Pending returns a copy of the queued multi-search entries, each one a
// header line and a body line.
func (c *Connection) Pending() []string {
	return c.bulk.Entries()
}

// ApplySearch sends every queued search as one batch and starts a new,
// empty batch before returning. Searches queued afterwards belong to the
// next call. An empty batch is still sent, with an empty body.
func (c *Connection) ApplySearch(ctx context.Context) *Future {
	payload := c.bulk.Drain()

	if n := bytes.Count(payload, []byte{'\n'}) / 2; n > 1 {
		ctx = throttle.WithWeight(ctx, n)
	}

	return c.send(ctx, http.MethodPost, endpoint.MultiSearch, endpoint.Target{}, nil, payload, bulk.ContentType)
}

func (c *Connection) do(ctx context.Context, method string, kind endpoint.Kind, target endpoint.Target, params Params, body []byte) *Future {
	return c.send(ctx, method, kind, target, params, body, contentTypeJSON)
}

func (c *Connection) send(ctx context.Context, method string, kind endpoint.Kind, target endpoint.Target, params Params, body []byte, contentType string) *Future {
	path, query, err := endpoint.Build(kind, target, params)
	if err != nil {
		return failedFuture(fmt.Errorf("building %s path: %w", kind, err))
	}

	u, err := endpoint.URL(c.baseURL, path, query)
	if err != nil {
		return failedFuture(fmt.Errorf("building %s url: %w", kind, err))
	}

	req := &Request{
		Method: method,
		URL:    u,
		Body:   body,
		Header: c.header(contentType, body != nil),
	}

	return c.dispatch(ctx, req)
}

func (c *Connection) header(contentType string, hasBody bool) http.Header {
	h := c.headers.Clone()
	if h == nil {
		h = make(http.Header)
	}

	h.Set("Accept", contentTypeJSON)
	if hasBody {
		h.Set("Content-Type", contentType)
	}
	if c.opaqueIDs {
		h.Set(headerOpaqueID, uuid.NewString())
	}

	return h
}

func (c *Connection) dispatch(ctx context.Context, req *Request) *Future {
	f := newFuture()

	go func() {
		start := time.Now()
		opaqueID := req.Header.Get(headerOpaqueID)

		resp, err := c.transport.Dispatch(ctx, req)
		if err == nil && resp == nil {
			err = errors.New("transport returned no response")
		}
		if err != nil {
			var te *TransportError
			if !errors.As(err, &te) {
				err = &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
			}

			c.logger.Debug("engine request failed", "method", req.Method, "path", req.URL.Path, "opaqueID", opaqueID, "since", time.Since(start).String(), "error", err)
			f.resolve(nil, err)
			return
		}

		if resp.Request == nil {
			resp.Request = req
		}

		c.logger.Debug("engine request completed", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "opaqueID", opaqueID, "since", time.Since(start).String())
		f.resolve(resp, nil)
	}()

	return f
}
