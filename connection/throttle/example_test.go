package throttle_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/adamwoolhether/esconn/connection/throttle"
)

func ExampleWithWeight() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	rt, err := throttle.NewRoundTripper(throttle.Config{RPS: 1, Burst: 3}, nil, http.DefaultTransport)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	client := &http.Client{Transport: rt}

	// A multi-search batch carrying three searches spends the whole burst.
	ctx := throttle.WithWeight(context.Background(), 3)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+"/_msearch", nil)
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	resp.Body.Close()
	fmt.Println("batch sent:", resp.StatusCode)

	// A single search that cannot wait for the bucket to refill is refused.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req, _ = http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+"/_search", nil)
	_, err = client.Do(req)
	fmt.Println("search throttled:", errors.Is(err, throttle.ErrWaitingFailed))
	// Output:
	// batch sent: 200
	// search throttled: true
}
