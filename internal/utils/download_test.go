package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app.zip":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("archive-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("no such file"))
		}
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	savePath := filepath.Join(t.TempDir(), "nested", "app.zip")

	n, err := fetcher.Fetch(context.Background(), server.URL+"/app.zip", savePath)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if n != int64(len("archive-bytes")) {
		t.Errorf("Fetch() wrote %d bytes", n)
	}
	data, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "archive-bytes" {
		t.Errorf("unexpected content %q", string(data))
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	savePath := filepath.Join(t.TempDir(), "missing.zip")
	_, err := NewHTTPFetcher().Fetch(context.Background(), server.URL+"/missing.zip", savePath)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "code: 404") {
		t.Errorf("error should carry the status code: %v", err)
	}
	if _, statErr := os.Stat(savePath); !os.IsNotExist(statErr) {
		t.Error("no file should be created for a failed request")
	}
}

func TestFetchCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPFetcher().Fetch(ctx, server.URL, filepath.Join(t.TempDir(), "f"))
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
