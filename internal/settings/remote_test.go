package settings

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newCountingServer(t *testing.T, content string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(content))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_MemoizesPerProcess(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv, hits := newCountingServer(t, "content")
	client := &Client{BaseURL: srv.URL}

	for i := 0; i < 3; i++ {
		text, err := client.Fetch(".flake8")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if text != "content" {
			t.Fatalf("Fetch() = %q, want %q", text, "content")
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestFetch_DiskCacheAcrossClients(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honored on linux")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv, hits := newCountingServer(t, "content")

	first := &Client{BaseURL: srv.URL, CacheTTL: time.Hour}
	if _, err := first.Fetch(".flake8"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	second := &Client{BaseURL: srv.URL, CacheTTL: time.Hour}
	text, err := second.Fetch(".flake8")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if text != "content" {
		t.Errorf("Fetch() = %q, want %q", text, "content")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch should use the disk cache)", got)
	}
}

func TestFetch_StaleCacheOnNetworkFailure(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honored on linux")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv, _ := newCountingServer(t, "content")

	first := &Client{BaseURL: srv.URL}
	if _, err := first.Fetch(".flake8"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	srv.Close()

	// TTL zero, so the cache is never fresh and the network is tried
	// first. With the server gone the stale cache is the fallback.
	second := &Client{BaseURL: srv.URL}
	text, err := second.Fetch(".flake8")
	if err != nil {
		t.Fatalf("Fetch() error = %v, want stale cache fallback", err)
	}
	if text != "content" {
		t.Errorf("Fetch() = %q, want %q", text, "content")
	}
}

func TestFetch_ErrorWithoutCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := &Client{BaseURL: srv.URL}

	if _, err := client.Fetch(".flake8"); err == nil {
		t.Error("expected error when the server is unreachable and nothing is cached")
	}
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	client := &Client{BaseURL: srv.URL}

	_, err := client.Fetch("missing-template")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want the status included", err)
	}
}
