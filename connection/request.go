package connection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request is a single call to the engine, built per operation and
// handed to a [Transport].
type Request struct {
	Method string
	URL    *url.URL
	Body   []byte
	Header http.Header
}

// Response is what the engine answered. Non-2xx statuses are delivered
// as responses, never as errors.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Request is the request that produced this response.
	Request *Request
}

// URL returns the fully resolved URL the request was sent to.
func (r *Response) URL() string {
	if r == nil || r.Request == nil || r.Request.URL == nil {
		return ""
	}

	return r.Request.URL.String()
}

// IsError reports whether the engine answered with a non-2xx status.
func (r *Response) IsError() bool {
	return r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices
}

// Decode unmarshals the body into dst, which must be a pointer.
// Numbers are kept as [json.Number] when useNumber is set.
func (r *Response) Decode(dst any, useNumber bool) error {
	d := json.NewDecoder(bytes.NewReader(r.Body))
	if useNumber {
		d.UseNumber()
	}

	if err := d.Decode(dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}
