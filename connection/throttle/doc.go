// Package throttle provides an [http.RoundTripper] that rate-limits
// requests sent to the search engine using a token-bucket algorithm
// from [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// A request normally costs one token. A batched multi-search carries
// several searches in one HTTP call; tag its context with [WithWeight]
// so it is charged once per search (capped at the burst size).
//
// When the rate limit is exceeded, outbound requests block until enough
// tokens are available or the request context is cancelled.
package throttle
