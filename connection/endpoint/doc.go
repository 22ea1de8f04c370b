// Package endpoint builds the REST paths and query strings understood by
// the search engine.
//
// [Build] maps a [Kind] and a [Target] to a path, omitting any segment
// that is absent:
//
//	path, query, err := endpoint.Build(endpoint.Search, endpoint.Target{Type: "galeria"}, nil)
//	// path == "/galeria/_search", query == ""
//
//	path, query, err = endpoint.Build(endpoint.Count, endpoint.Target{Index: "teste"},
//		endpoint.Params{"refresh": true})
//	// path == "/teste/_count", query == "refresh=True"
//
// [URL] resolves a path and query against a connection's base URL.
package endpoint
