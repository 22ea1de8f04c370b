package bulk_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/adamwoolhether/esconn/connection/bulk"
	"github.com/google/go-cmp/cmp"
)

func termQuery(field, value string) map[string]any {
	return map[string]any{"query": map[string]any{"term": map[string]any{field: value}}}
}

func TestAccumulator_Add(t *testing.T) {
	testCases := map[string]struct {
		indices []string
		bodies  []any
		exp     []string
	}{
		"withIndex": {
			indices: []string{"teste", "neverEndIndex"},
			bodies:  []any{termQuery("_id", "171171"), termQuery("body", "multisearch")},
			exp: []string{
				`{"index":"teste"}` + "\n" + `{"query":{"term":{"_id":"171171"}}}`,
				`{"index":"neverEndIndex"}` + "\n" + `{"query":{"term":{"body":"multisearch"}}}`,
			},
		},
		"withoutIndex": {
			indices: []string{"", ""},
			bodies:  []any{termQuery("_id", "171171"), termQuery("body", "multisearch")},
			exp: []string{
				"{}\n" + `{"query":{"term":{"_id":"171171"}}}`,
				"{}\n" + `{"query":{"term":{"body":"multisearch"}}}`,
			},
		},
		"rawJSON": {
			indices: []string{"raw"},
			bodies:  []any{json.RawMessage(`{ "query" : { "match_all" : {} } }`)},
			exp:     []string{`{"index":"raw"}` + "\n" + `{"query":{"match_all":{}}}`},
		},
		"bytes": {
			indices: []string{""},
			bodies:  []any{[]byte("{\n\"size\": 0\n}")},
			exp:     []string{"{}\n" + `{"size":0}`},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var acc bulk.Accumulator
			for i := range tc.indices {
				if err := acc.Add(tc.indices[i], tc.bodies[i]); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			if diff := cmp.Diff(tc.exp, acc.Entries()); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAccumulator_AddErrors(t *testing.T) {
	var acc bulk.Accumulator

	if err := acc.Add("idx", nil); !errors.Is(err, bulk.ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got: %v", err)
	}

	if err := acc.Add("idx", []byte("{not json")); err == nil {
		t.Error("expected error for malformed raw json")
	}

	if err := acc.Add("idx", make(chan int)); err == nil {
		t.Error("expected error for unencodable body")
	}

	if acc.Len() != 0 {
		t.Errorf("expected failed adds to leave no entries, got %d", acc.Len())
	}
}

func TestAccumulator_Drain(t *testing.T) {
	var acc bulk.Accumulator
	_ = acc.Add("teste", termQuery("_id", "171171"))
	_ = acc.Add("neverEndIndex", termQuery("_id", "101010"))

	got := string(acc.Drain())
	exp := `{"index":"teste"}` + "\n" +
		`{"query":{"term":{"_id":"171171"}}}` + "\n" +
		`{"index":"neverEndIndex"}` + "\n" +
		`{"query":{"term":{"_id":"101010"}}}` + "\n"

	if got != exp {
		t.Errorf("payload mismatch:\n%s", cmp.Diff(exp, got))
	}

	if acc.Len() != 0 {
		t.Errorf("expected empty accumulator after drain, got %d entries", acc.Len())
	}

	if b := acc.Drain(); b != nil {
		t.Errorf("expected nil payload from empty accumulator, got %q", b)
	}
}

func TestAccumulator_DrainStartsNewBatch(t *testing.T) {
	var acc bulk.Accumulator
	_ = acc.Add("first", termQuery("_id", "1"))

	first := acc.Drain()

	_ = acc.Add("second", termQuery("_id", "2"))

	if strings.Contains(string(first), "second") {
		t.Errorf("drained payload contains entry added afterwards: %q", first)
	}

	exp := []string{`{"index":"second"}` + "\n" + `{"query":{"term":{"_id":"2"}}}`}
	if diff := cmp.Diff(exp, acc.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulator_ConcurrentAdd(t *testing.T) {
	const workers = 50

	var acc bulk.Accumulator
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := acc.Add(fmt.Sprintf("idx-%d", i), termQuery("_id", "x")); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(string(acc.Drain()), "\n"), "\n")
	if len(lines) != workers*2 {
		t.Fatalf("expected %d lines, got %d", workers*2, len(lines))
	}
	for i := 0; i < len(lines); i += 2 {
		if !strings.HasPrefix(lines[i], `{"index":"idx-`) {
			t.Errorf("line %d: expected header, got %q", i, lines[i])
		}
	}
}
