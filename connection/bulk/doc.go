// Package bulk accumulates multi-search requests and renders them into
// the engine's newline-delimited (NDJSON) batch format.
//
// Each call to [Accumulator.Add] appends one header/body pair. [Accumulator.Drain]
// renders every pending pair and empties the accumulator in a single step:
//
//	var acc bulk.Accumulator
//	_ = acc.Add("teste", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
//	_ = acc.Add("", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
//	payload := acc.Drain()
//	// {"index":"teste"}
//	// {"query":{"match_all":{}}}
//	// {}
//	// {"query":{"match_all":{}}}
//
// Most callers use it through connection.Connection.MultiSearch and
// connection.Connection.ApplySearch.
package bulk
