package connection

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects version-dependent request body shapes.
type Dialect int

const (
	// DialectModern engines (1.0 and later) take the whole {"query": ...}
	// wrapper as a count body.
	DialectModern Dialect = iota
	// DialectLegacy engines (before 1.0) take only the inner query clause.
	DialectLegacy
)

func (d Dialect) String() string {
	if d == DialectLegacy {
		return "legacy"
	}
	return "modern"
}

// Version is the engine's reported version.
type Version struct {
	Number string
	Parts  []int
}

// ParseVersion keeps the purely numeric dot-separated components of s,
// so "0.90.13" gives [0 90 13] and "1.0.0-beta1" gives [1 0].
func ParseVersion(s string) (Version, error) {
	v := Version{Number: s}
	for _, p := range strings.Split(s, ".") {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			continue
		}
		v.Parts = append(v.Parts, n)
	}

	if len(v.Parts) == 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	return v, nil
}

// Major returns the first numeric component.
func (v Version) Major() int {
	if len(v.Parts) == 0 {
		return 0
	}
	return v.Parts[0]
}

// Dialect returns DialectLegacy for major versions below 1.
func (v Version) Dialect() Dialect {
	if v.Major() < 1 {
		return DialectLegacy
	}
	return DialectModern
}

func (v Version) String() string { return v.Number }

// CountSource shapes a {"query": ...} body for Count according to the
// engine's dialect: legacy engines get the inner clause only.
func CountSource(v Version, body map[string]any) any {
	if v.Dialect() == DialectLegacy {
		if q, ok := body["query"]; ok {
			return q
		}
	}

	return body
}

// Version asks the engine for its version. The result is not cached.
func (c *Connection) Version(ctx context.Context) (Version, error) {
	resp, err := c.GetByPath(ctx, "/").Await(ctx)
	if err != nil {
		return Version{}, fmt.Errorf("fetching engine status: %w", err)
	}

	if resp.IsError() {
		return Version{}, newStatusError(resp)
	}

	var status struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := resp.Decode(&status, false); err != nil {
		return Version{}, fmt.Errorf("reading engine status: %w", err)
	}

	return ParseVersion(status.Version.Number)
}
