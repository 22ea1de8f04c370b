package connection

import (
	"net/url"
	"strconv"
	"strings"
)

// FromURI builds a Connection from a full URI such as
// "https://search.internal:9200/". Only the scheme and authority are
// kept; any path, query or trailing slash is dropped from the base URL.
// A malformed URI fails with an error wrapping ErrInvalidURI.
func FromURI(uri string, optFns ...Option) (*Connection, error) {
	scheme, host, port, err := parseURI(uri)
	if err != nil {
		return nil, err
	}

	return build(scheme, host, port, optFns)
}

func parseURI(uri string) (string, string, int, error) {
	invalid := func(reason string) (string, string, int, error) {
		return "", "", 0, &InvalidURIError{URI: uri, Reason: reason}
	}

	if strings.TrimSpace(uri) == "" {
		return invalid("empty")
	}

	u, err := url.Parse(uri)
	if err != nil {
		return invalid(err.Error())
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "":
		return invalid("missing scheme")
	default:
		return invalid("unsupported scheme " + strconv.Quote(u.Scheme))
	}

	host := u.Hostname()
	if host == "" {
		return invalid("missing host")
	}

	var port int
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return invalid("invalid port " + strconv.Quote(p))
		}
	}

	return scheme, host, port, nil
}
