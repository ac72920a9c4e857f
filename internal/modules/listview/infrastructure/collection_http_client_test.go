package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/shared/auth"
)

type customerRow struct {
	ID   int    `json:"customerId"`
	Name string `json:"customerName"`
}

type customerPayload struct {
	Name string `json:"customerName"`
}

func newBackend(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTClient(srv.URL+"/", 2*time.Second)
}

func TestFetchAllDecodesBareArray(t *testing.T) {
	var rows []string
	for i := 1; i <= 16; i++ {
		rows = append(rows, fmt.Sprintf(`{"customerId":%d,"customerName":"c%02d"}`, i, i))
	}
	rest := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/customer" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "["+strings.Join(rows, ",")+"]")
	})
	client, err := NewCollectionHTTPClient[customerRow, customerPayload](rest, "customer")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("expected 16 records, got %d", len(got))
	}
	if got[15].ID != 16 || got[15].Name != "c16" {
		t.Fatalf("unexpected last record %+v", got[15])
	}
}

func TestDecodeCollectionEnvelopeAndEmpty(t *testing.T) {
	cases := map[string]int{
		`{"items":[{"customerId":1}]}`:   1,
		`{"data":[{"customerId":1},{}]}`: 2,
		`{"content":[]}`:                 0,
		`null`:                           0,
		``:                               0,
		`[]`:                             0,
	}
	for body, want := range cases {
		got, err := decodeCollection[customerRow]([]byte(body))
		if err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}
		if got == nil || len(got) != want {
			t.Fatalf("decode %q: expected %d records, got %v", body, want, got)
		}
	}

	if _, err := decodeCollection[customerRow]([]byte(`{"total":3}`)); err == nil {
		t.Fatalf("expected error for envelope without items")
	}
}

func TestFetchAllMapsFailures(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusForbidden, "", port.ErrCollectionForbidden},
		{http.StatusUnauthorized, "", port.ErrCollectionForbidden},
		{http.StatusNotFound, "", port.ErrRecordNotFound},
		{http.StatusInternalServerError, "boom", port.ErrFetchFailed},
		{http.StatusOK, "{not json", port.ErrFetchFailed},
	}
	for _, tc := range cases {
		rest := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		})
		client, _ := NewCollectionHTTPClient[customerRow, customerPayload](rest, "customer")
		got, err := client.FetchAll(context.Background())
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		if got != nil {
			t.Fatalf("status %d: expected no records, got %v", tc.status, got)
		}
	}
}

func TestFetchAllUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, _ := NewCollectionHTTPClient[customerRow, customerPayload](NewRESTClient(url, time.Second), "customer")
	if _, err := client.FetchAll(context.Background()); !errors.Is(err, port.ErrFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}

func TestRESTClientForwardsBearerToken(t *testing.T) {
	var (
		mu     sync.Mutex
		header string
	)
	rest := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		header = r.Header.Get("Authorization")
		mu.Unlock()
		_, _ = io.WriteString(w, "[]")
	})
	client, _ := NewCollectionHTTPClient[customerRow, customerPayload](rest, "productB")

	if _, err := client.FetchAll(auth.WithToken(context.Background(), "abc")); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if header != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", header)
	}
}

func TestCreateAndDeleteRoundTrips(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	rest := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.EscapedPath()+" "+strings.TrimSpace(string(body)))
		mu.Unlock()
		if r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	client, _ := NewCollectionHTTPClient[customerRow, customerPayload](rest, "productB")

	if err := client.Create(context.Background(), customerPayload{Name: "음료"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := client.Delete(context.Background(), "B 01"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := client.Delete(context.Background(), "missing"); !errors.Is(err, port.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := client.Delete(context.Background(), "  "); !errors.Is(err, port.ErrRecordNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		`POST /productB {"customerName":"음료"}`,
		"DELETE /productB/B%2001 ",
		"DELETE /productB/missing ",
	}
	if len(requests) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), requests)
	}
	for i := range want {
		if strings.TrimSpace(requests[i]) != strings.TrimSpace(want[i]) {
			t.Fatalf("request %d: expected %q, got %q", i, want[i], requests[i])
		}
	}
}

func TestCreateRejectedByBackend(t *testing.T) {
	rest := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "duplicate")
	})
	client, _ := NewCollectionHTTPClient[customerRow, customerPayload](rest, "customer")

	err := client.Create(context.Background(), customerPayload{Name: "x"})
	if !errors.Is(err, port.ErrMutationRejected) || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected rejection with body, got %v", err)
	}
}

func TestNewCollectionHTTPClientUnknownResource(t *testing.T) {
	if _, err := NewCollectionHTTPClient[customerRow, customerPayload](NewRESTClient("", 0), "orders"); err == nil {
		t.Fatalf("expected error for unknown resource")
	}
	if got := NewRESTClient("  ", 0).BaseURL(); got != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", got)
	}
}
