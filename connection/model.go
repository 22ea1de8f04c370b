package connection

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body quoted in an
// UnexpectedStatusError.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrInvalidURI is the sentinel wrapped by [InvalidURIError].
	ErrInvalidURI = errors.New("invalid uri")
	// ErrTransport is the sentinel wrapped by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrTimeout is returned by [Future.AwaitWithTimeout] when the wait elapses.
	ErrTimeout = errors.New("timed out awaiting response")
	// ErrUnexpectedStatusCode is the sentinel wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrInvalidVersion is returned when the engine's version string has no numeric component.
	ErrInvalidVersion = errors.New("invalid engine version")
	// ErrInvalidConfig is returned when a [Config] fails validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// InvalidURIError is returned synchronously by [FromURI] for a malformed
// connection string.
type InvalidURIError struct {
	URI    string
	Reason string
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidURI, e.URI, e.Reason)
}

func (e *InvalidURIError) Unwrap() error {
	return ErrInvalidURI
}

// TransportError wraps a network-level failure (refused connection,
// DNS, timeout, cancellation) for a single request.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrTransport, e.Method, e.URL, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// UnexpectedStatusError is returned by helpers that need a successful
// response to do their job, such as [Connection.Version]. Verb operations
// never return it; they deliver the response as is.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

func newStatusError(resp *Response) *UnexpectedStatusError {
	body := resp.Body
	if len(body) > maxErrBodySize {
		body = body[:maxErrBodySize]
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Err:        ErrUnexpectedStatusCode,
	}
}
