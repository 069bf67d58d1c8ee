package footdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/memory"
)

const standingsPayload = `{
  "standings": [
    {"type": "HOME", "table": [{"position": 1, "team": {"name": "ignored"}}]},
    {"type": "TOTAL", "table": [
      {"position": 2, "team": {"name": "Palmeiras"}},
      {"position": 1, "team": {"name": "Flamengo"}},
      {"position": 3, "team": {"shortName": "Botafogo"}}
    ]}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{BaseURL: server.URL, Token: "test-token"})
}

func TestGetStandings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/BSA/standings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("season") != "2025" {
			t.Errorf("unexpected season query %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Auth-Token") != "test-token" {
			t.Errorf("missing auth token header")
		}
		_, _ = w.Write([]byte(standingsPayload))
	})

	table, err := client.GetStandings(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table))
	}
	// The TOTAL block wins and rows come back position-sorted.
	if table[0].Team != "Flamengo" || table[0].Position != 1 {
		t.Fatalf("unexpected first row: %+v", table[0])
	}
	if table[2].Team != "Botafogo" {
		t.Fatalf("shortName fallback missing: %+v", table[2])
	}
}

func TestGetStandingsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(standingsPayload))
	})

	if _, err := client.GetStandings(context.Background(), 2025); err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestGetStandingsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := client.GetStandings(context.Background(), 2025); err == nil {
		t.Fatalf("expected error for 403")
	}
	if calls.Load() != 1 {
		t.Fatalf("403 must not be retried, got %d calls", calls.Load())
	}
}

func TestPrefetchSeasons(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(standingsPayload))
	})
	sink := memory.NewStandingsProvider()

	if err := client.PrefetchSeasons(context.Background(), []int{2024, 2025}, sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, season := range []int{2024, 2025} {
		table, err := sink.GetStandings(context.Background(), season)
		if err != nil || len(table) != 3 {
			t.Fatalf("season %d not stored: err=%v rows=%d", season, err, len(table))
		}
	}
}
