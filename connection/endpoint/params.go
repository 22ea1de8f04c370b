package endpoint

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params are rendered into a request's query string. A slice value
// repeats its key once per element.
type Params map[string]any

// Encode renders p as key=value pairs joined by '&', sorted by key.
// A nil or empty Params yields "".
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	values := make(url.Values, len(p))
	for k, v := range p {
		switch vs := v.(type) {
		case []string:
			values[k] = append(values[k], vs...)
		case []any:
			for _, e := range vs {
				values.Add(k, format(e))
			}
		default:
			values.Add(k, format(v))
		}
	}

	return values.Encode()
}

// format returns the text form of v sent to the engine. Booleans are
// capitalised, as the engine's own clients render them.
func format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}

	return fmt.Sprint(v)
}
