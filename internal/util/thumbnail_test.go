package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkarpov/truthshield/internal/worker"
)

const testUserAgent = "TruthShield-Test/0.1"

func newTestResolver() *ThumbnailResolver {
	gate := NewRobotsGate(testUserAgent, 5*time.Second)
	limiter := worker.NewLimiter(100, 100)
	client := &http.Client{Timeout: 5 * time.Second}
	return NewThumbnailResolver(gate, limiter, client, testUserAgent, 2_000_000)
}

func TestThumbnailResolver_OGImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
			return
		}
		_, _ = w.Write([]byte(`<html><head>
			<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
			<meta property="og:image" content="https://cdn.example.com/og.jpg">
		</head><body></body></html>`))
	}))
	defer server.Close()

	img, err := newTestResolver().Resolve(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// og:image wins even when twitter:image appears first.
	if img != "https://cdn.example.com/og.jpg" {
		t.Errorf("Expected og:image, got %s", img)
	}
}

func TestThumbnailResolver_TwitterFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head>
			<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
		</head><body></body></html>`))
	}))
	defer server.Close()

	img, err := newTestResolver().Resolve(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if img != "https://cdn.example.com/twitter.jpg" {
		t.Errorf("Expected twitter:image fallback, got %s", img)
	}
}

func TestThumbnailResolver_NoMetaTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Plain page</title></head><body></body></html>`))
	}))
	defer server.Close()

	img, err := newTestResolver().Resolve(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if img != "" {
		t.Errorf("Expected empty result, got %s", img)
	}
}

func TestThumbnailResolver_RobotsDisallowed(t *testing.T) {
	var pageFetched bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		pageFetched = true
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	_, err := newTestResolver().Resolve(context.Background(), server.URL+"/private/article")
	if err == nil {
		t.Fatal("Expected error for a disallowed path")
	}
	if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("Expected robots.txt in the error, got %v", err)
	}
	if pageFetched {
		t.Error("Disallowed page must not be fetched")
	}
}

func TestThumbnailResolver_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestResolver().Resolve(context.Background(), server.URL+"/gone")
	if err == nil {
		t.Fatal("Expected error for a 404 page")
	}
}

func TestPreviewImage_FirstDeclarationWins(t *testing.T) {
	img := previewImage(strings.NewReader(`<html><head>
		<meta property="og:image" content="https://cdn.example.com/first.jpg">
		<meta property="og:image" content="https://cdn.example.com/second.jpg">
	</head></html>`))
	if img != "https://cdn.example.com/first.jpg" {
		t.Errorf("Expected the first og:image, got %s", img)
	}
}
