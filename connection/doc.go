// Package connection provides an asynchronous client for a document-search
// engine's REST API, built on [net/http].
//
// # Building a Connection
//
// Use [New] with a host and port, or [FromURI] with a full URI, plus
// functional options:
//
//	c, err := connection.FromURI("https://search.internal:9200",
//		connection.WithTimeout(10*time.Second),
//		connection.WithUserAgent("myapp/1.0"),
//	)
//
// Connections built without HTTP options share [DefaultTransport].
// Any other [Transport], such as a test double, can be injected with
// [WithTransport].
//
// # Making Requests
//
// Every network operation returns a [Future] right away. Await it, or
// register a callback; both observe the same completion:
//
//	resp, err := c.Search(ctx, "teste", "materia", query, nil).Await(ctx)
//
//	c.Count(ctx, "outroteste", "", nil, connection.Params{"refresh": true}).
//		Then(func(resp *connection.Response, err error) { ... })
//
// A non-2xx answer from the engine is delivered as a [Response]; only
// network failures are errors ([TransportError]).
//
// # Multi-search
//
// [Connection.MultiSearch] queues a search locally without sending anything.
// [Connection.ApplySearch] sends the queued searches as a single NDJSON
// batch and clears the queue before it returns:
//
//	_ = c.MultiSearch("teste", query1)
//	_ = c.MultiSearch("neverEndIndex", query2)
//	resp, err := c.ApplySearch(ctx).Await(ctx)
//
// # Engine Versions
//
// Count bodies differ between engine generations. Fetch the version with
// [Connection.Version] and shape the body with [CountSource].
//
// # Configuration
//
// [LoadConfig] reads ESCONN_* environment variables (optionally from
// dotenv files) and [FromConfig] turns them into a Connection.
package connection
