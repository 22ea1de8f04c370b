package connection_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/adamwoolhether/esconn/connection"
)

func ExampleFromURI() {
	conn, err := connection.FromURI("https://dummy.server:1234/")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(conn.URL())
	fmt.Println(conn.Host(), conn.Port(), conn.Scheme())
	// Output:
	// https://dummy.server:1234
	// dummy.server 1234 https
}

func ExampleConnection_MultiSearch() {
	conn, err := connection.New("localhost", 9200)
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = conn.MultiSearch("teste", map[string]any{"query": map[string]any{"term": map[string]any{"_id": "171171"}}})
	_ = conn.MultiSearch("", map[string]any{"size": 0})

	for _, entry := range conn.Pending() {
		fmt.Println(entry)
	}
	// Output:
	// {"index":"teste"}
	// {"query":{"term":{"_id":"171171"}}}
	// {}
	// {"size":0}
}

func ExampleConnection_ApplySearch() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		searches := strings.Count(string(b), "\n") / 2
		fmt.Fprintf(w, `{"responses":[%s]}`, strings.TrimSuffix(strings.Repeat(`{"hits":{}},`, searches), ","))
	}))
	defer server.Close()

	conn, err := connection.FromURI(server.URL)
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = conn.MultiSearch("teste", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	_ = conn.MultiSearch("outroteste", map[string]any{"size": 0})

	resp, err := conn.ApplySearch(context.Background()).Await(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	var result struct {
		Responses []any `json:"responses"`
	}
	if err := resp.Decode(&result, false); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(resp.StatusCode, len(result.Responses), len(conn.Pending()))
	// Output:
	// 200 2 0
}

func ExampleConnection_Count() {
	conn, err := connection.New("localhost", 9200, connection.WithTransport(connection.TransportFunc(
		func(ctx context.Context, req *connection.Request) (*connection.Response, error) {
			return &connection.Response{StatusCode: http.StatusOK, Body: []byte(`{"count":3}`)}, nil
		},
	)))
	if err != nil {
		fmt.Println(err)
		return
	}

	source := map[string]any{"query": map[string]any{"term": map[string]any{"_id": "171171"}}}
	resp, err := conn.Count(context.Background(), "", "", source, connection.Params{"refresh": true}).Await(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(resp.URL())
	fmt.Println(string(resp.Body))
	// Output:
	// http://localhost:9200/_count?refresh=True
	// {"count":3}
}

func ExampleFuture_Then() {
	conn, err := connection.New("localhost", 9200, connection.WithTransport(connection.TransportFunc(
		func(ctx context.Context, req *connection.Request) (*connection.Response, error) {
			return &connection.Response{StatusCode: http.StatusNotFound, Body: []byte(`{"found":false}`)}, nil
		},
	)))
	if err != nil {
		fmt.Println(err)
		return
	}

	done := make(chan struct{})
	conn.Get(context.Background(), "teste", "materia", "http://localhost/noticia/2/fast").Then(func(resp *connection.Response, err error) {
		defer close(done)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(resp.StatusCode, resp.IsError())
		fmt.Println(resp.URL())
	})
	<-done
	// Output:
	// 404 true
	// http://localhost:9200/teste/materia/http:%2F%2Flocalhost%2Fnoticia%2F2%2Ffast
}
