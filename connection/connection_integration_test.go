//go:build integration

package connection_test

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/adamwoolhether/esconn/connection"
)

// engineURI points at a live engine, e.g. ESCONN_URL=http://localhost:9200.
func engineURI(t *testing.T) string {
	t.Helper()

	uri := os.Getenv("ESCONN_URL")
	if uri == "" {
		t.Skip("ESCONN_URL not set")
	}

	return uri
}

func TestIntegration_DocumentLifecycle(t *testing.T) {
	conn, err := connection.FromURI(engineURI(t), connection.WithTimeout(10*time.Second), connection.WithOpaqueIDs())
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}

	ctx := t.Context()
	index := "esconn-it"
	id := "http://localhost/noticia/2/fast"
	// Strict engines only take lower-case booleans.
	refresh := connection.Params{"refresh": "true"}

	v, err := conn.Version(ctx)
	if err != nil {
		t.Fatalf("fetching version: %v", err)
	}
	t.Logf("engine version %s (%s)", v, v.Dialect())

	typ := "_doc"
	if v.Major() < 7 {
		typ = "materia"
	}

	resp, err := conn.Put(ctx, index, typ, id, map[string]any{"title": "fast", "tags": "velha"}, refresh).Await(ctx)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if resp.IsError() {
		t.Fatalf("put: status %d: %s", resp.StatusCode, resp.Body)
	}

	resp, err = conn.Get(ctx, index, typ, id).Await(ctx)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get: %v %v", err, resp)
	}

	resp, err = conn.Update(ctx, index, typ, id, map[string]any{"tags": "nova"}).Await(ctx)
	if err != nil || resp.IsError() {
		t.Fatalf("update: %v %v", err, resp)
	}

	source := connection.CountSource(v, map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	resp, err = conn.Count(ctx, index, "", source, nil).Await(ctx)
	if err != nil || resp.IsError() {
		t.Fatalf("count: %v %v", err, resp)
	}

	var count struct {
		Count int `json:"count"`
	}
	if err := resp.Decode(&count, false); err != nil {
		t.Fatalf("decoding count: %v", err)
	}
	if count.Count != 1 {
		t.Errorf("expected 1 document, got %d", count.Count)
	}

	_ = conn.MultiSearch(index, map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	_ = conn.MultiSearch(index, map[string]any{"size": 0})

	resp, err = conn.ApplySearch(ctx).Await(ctx)
	if err != nil || resp.IsError() {
		t.Fatalf("msearch: %v %v", err, resp)
	}

	var msearch struct {
		Responses []any `json:"responses"`
	}
	if err := resp.Decode(&msearch, false); err != nil {
		t.Fatalf("decoding msearch: %v", err)
	}
	if len(msearch.Responses) != 2 {
		t.Errorf("expected 2 responses, got %d", len(msearch.Responses))
	}

	resp, err = conn.Delete(ctx, index, typ, id, refresh).Await(ctx)
	if err != nil || resp.IsError() {
		t.Fatalf("delete: %v %v", err, resp)
	}
}
