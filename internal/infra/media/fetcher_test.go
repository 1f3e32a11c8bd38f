package media

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

func newTestFetcher(retries int) *Fetcher {
	return NewFetcher(5*time.Second, retries, zerolog.Nop())
}

func TestFetchSuccess(t *testing.T) {
	payload := []byte("binary-asset-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := newTestFetcher(0).Fetch(context.Background(), srv.URL, "image")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: got %d bytes", len(data))
	}
}

func TestFetchRejectsWrongCategory(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>soft error page</html>"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Fetch(context.Background(), srv.URL, "image")
	if err == nil {
		t.Fatalf("expected error for text/html response fetched as image")
	}
	var fe *assets.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *assets.FetchError", err)
	}
	if !strings.Contains(err.Error(), "does not match expected category") {
		t.Fatalf("error = %v, want category mismatch", err)
	}
	if calls != 1 {
		t.Fatalf("server called %d times, want 1 (mismatch must not retry)", calls)
	}
}

func TestFetchOctetStreamPassesCategoryCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer srv.Close()

	if _, err := newTestFetcher(0).Fetch(context.Background(), srv.URL, "image"); err != nil {
		t.Fatalf("octet-stream should pass through, got %v", err)
	}
}

func TestFetchNotFoundDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Fetch(context.Background(), srv.URL, "image")
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}
	var fe *assets.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *assets.FetchError", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", fe.Status)
	}
	if calls != 1 {
		t.Fatalf("server called %d times, want 1 (4xx must not retry)", calls)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := newTestFetcher(3).Fetch(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("Fetch should recover after retries, got %v", err)
	}
	if string(data) != "ok" {
		t.Fatalf("payload = %q, want \"ok\"", data)
	}
	if calls != 3 {
		t.Fatalf("server called %d times, want 3", calls)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	_, err := newTestFetcher(0).Fetch(context.Background(), "", "image")
	if !errors.Is(err, assets.ErrNoLocator) {
		t.Fatalf("error = %v, want ErrNoLocator", err)
	}
}
