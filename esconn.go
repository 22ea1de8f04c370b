// Package esconn exposes the engine connection builders.
package esconn

import (
	"github.com/adamwoolhether/esconn/connection"
)

type (
	// Connection talks to a single engine endpoint.
	Connection = connection.Connection

	// Option configures a Connection.
	Option = connection.Option

	// Params are rendered into a request's query string.
	Params = connection.Params

	// Future is the pending result of an engine request.
	Future = connection.Future

	// Response is what the engine answered, whatever the status.
	Response = connection.Response
)

var (
	// ErrInvalidURI is returned by FromURI for a malformed connection string.
	ErrInvalidURI = connection.ErrInvalidURI

	// ErrTransport is wrapped by every network-level request failure.
	ErrTransport = connection.ErrTransport
)

// New connects to host:port. If not specified, the shared default
// transport is used.
func New(host string, port int, opts ...Option) (*Connection, error) {
	return connection.New(host, port, opts...)
}

// FromURI connects to the endpoint named by a full URI, such as
// "http://localhost:9200/".
func FromURI(uri string, opts ...Option) (*Connection, error) {
	return connection.FromURI(uri, opts...)
}

// FromEnv loads a connection config from the environment, and from any
// dotenv files given, and connects with it.
func FromEnv(dotenvFiles ...string) (*Connection, error) {
	cfg, err := connection.LoadConfig(dotenvFiles...)
	if err != nil {
		return nil, err
	}

	return connection.FromConfig(cfg)
}
