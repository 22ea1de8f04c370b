package bulk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ContentType is the media type of a rendered batch.
const ContentType = "application/x-ndjson"

// emptyHeader targets every index.
const emptyHeader = "{}"

// ErrEmptyBody is returned by Add when the body encodes to nothing.
var ErrEmptyBody = errors.New("search body must not be empty")

// Accumulator holds pending multi-search entries in call order.
// The zero value is ready to use. It is safe for concurrent use.
type Accumulator struct {
	mu      sync.Mutex
	entries []string
}

// Add appends one header/body pair. An empty index renders the header as {}.
func (a *Accumulator) Add(index string, body any) error {
	hdr, err := header(index)
	if err != nil {
		return err
	}

	b, err := Encode(body)
	if err != nil {
		return fmt.Errorf("encoding search body: %w", err)
	}
	if len(b) == 0 {
		return ErrEmptyBody
	}

	a.mu.Lock()
	a.entries = append(a.entries, hdr+"\n"+string(b))
	a.mu.Unlock()

	return nil
}

// Entries returns a copy of the pending entries.
func (a *Accumulator) Entries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(a.entries))
	copy(out, a.entries)

	return out
}

// Len reports the number of pending entries.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.entries)
}

// Drain renders all pending entries and clears the accumulator.
// Every entry is terminated by a newline. An empty accumulator yields nil.
func (a *Accumulator) Drain() []byte {
	a.mu.Lock()
	entries := a.entries
	a.entries = nil
	a.mu.Unlock()

	return render(entries)
}

func render(entries []string) []byte {
	if len(entries) == 0 {
		return nil
	}

	size := 0
	for _, e := range entries {
		size += len(e) + 1
	}

	var buf bytes.Buffer
	buf.Grow(size)
	for _, e := range entries {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func header(index string) (string, error) {
	if index == "" {
		return emptyHeader, nil
	}

	b, err := json.Marshal(struct {
		Index string `json:"index"`
	}{Index: index})
	if err != nil {
		return "", fmt.Errorf("encoding search header: %w", err)
	}

	return string(b), nil
}

// Encode renders v as a single line of JSON. Raw JSON ([]byte or
// json.RawMessage) is compacted instead of being re-encoded. A nil v
// yields nil.
func Encode(v any) ([]byte, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		raw = t
	case []byte:
		raw = t
	default:
		return json.Marshal(v)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("compacting raw json: %w", err)
	}

	return buf.Bytes(), nil
}
