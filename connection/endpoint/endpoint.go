package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrMissingSegment is returned when a document kind lacks its index, type or id.
	ErrMissingSegment = errors.New("missing path segment")
	// ErrUnknownKind is returned for a Kind Build does not know.
	ErrUnknownKind = errors.New("unknown endpoint kind")
)

// Kind selects a path template.
type Kind int

const (
	// Raw passes Target.Path through verbatim.
	Raw Kind = iota
	// Root is the engine's status endpoint, "/".
	Root
	// Search is /{index?}/{type?}/_search.
	Search
	// Count is /{index?}/{type?}/_count.
	Count
	// Document is /{index}/{type}/{id}, shared by get, put and delete.
	Document
	// Update is /{index}/{type}/{id}/_update.
	Update
	// MultiSearch is /{index?}/_msearch.
	MultiSearch
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Root:
		return "root"
	case Search:
		return "search"
	case Count:
		return "count"
	case Document:
		return "document"
	case Update:
		return "update"
	case MultiSearch:
		return "msearch"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Target names what a request addresses. Empty fields are absent.
type Target struct {
	Index string
	Type  string
	ID    string // Unescaped; Build escapes it.
	Path  string // Raw only.
}

// Build returns the escaped path and the encoded query string (without
// a leading '?') for the given kind.
func Build(kind Kind, target Target, params Params) (string, string, error) {
	var path string

	switch kind {
	case Raw:
		path = target.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
	case Root:
		path = "/"
	case Search:
		path = join(target.Index, target.Type, "_search")
	case Count:
		path = join(target.Index, target.Type, "_count")
	case MultiSearch:
		path = join(target.Index, "_msearch")
	case Document, Update:
		if err := target.requireDocument(); err != nil {
			return "", "", fmt.Errorf("%s: %w", kind, err)
		}
		path = join(target.Index, target.Type, target.ID)
		if kind == Update {
			path += "/_update"
		}
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return path, params.Encode(), nil
}

// URL resolves path and query against base. A query already present
// in path (Raw kind) is kept and query is appended to it.
func URL(base *url.URL, path, query string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}

	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + ref.Path
	u.RawPath = ""
	if ref.RawPath != "" {
		u.RawPath = strings.TrimSuffix(base.EscapedPath(), "/") + ref.RawPath
	}

	switch {
	case ref.RawQuery != "" && query != "":
		u.RawQuery = ref.RawQuery + "&" + query
	case ref.RawQuery != "":
		u.RawQuery = ref.RawQuery
	default:
		u.RawQuery = query
	}
	u.Fragment = ""

	return &u, nil
}

func (t Target) requireDocument() error {
	var missing []string
	if t.Index == "" {
		missing = append(missing, "index")
	}
	if t.Type == "" {
		missing = append(missing, "type")
	}
	if t.ID == "" {
		missing = append(missing, "id")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSegment, strings.Join(missing, ", "))
	}

	return nil
}

// join escapes and joins the present segments.
func join(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	if b.Len() == 0 {
		return "/"
	}

	return b.String()
}
