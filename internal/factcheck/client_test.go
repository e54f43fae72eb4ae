package factcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkarpov/truthshield/internal/model"
)

func testConfig(endpoint string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.FactCheck.APIKey = "test-key"
	cfg.FactCheck.Endpoint = endpoint
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func TestClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			t.Errorf("Expected key=test-key, got %s", q.Get("key"))
		}
		if q.Get("query") != "vaccines cause autism" {
			t.Errorf("Unexpected query param: %s", q.Get("query"))
		}
		if q.Get("languageCode") != "en" {
			t.Errorf("Expected languageCode=en, got %s", q.Get("languageCode"))
		}
		if q.Get("pageSize") != "10" {
			t.Errorf("Expected pageSize=10, got %s", q.Get("pageSize"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"claims": [
				{
					"text": "Vaccines cause autism",
					"claimant": "Social media posts",
					"claimReview": [
						{
							"publisher": {"name": "Snopes", "site": "snopes.com"},
							"url": "https://snopes.com/vaccines",
							"textualRating": "False"
						}
					]
				},
				{
					"text": "MMR vaccine linked to autism",
					"claimReview": [
						{
							"publisher": {"name": "PolitiFact"},
							"url": "https://politifact.com/mmr",
							"textualRating": "Pants on Fire"
						}
					]
				}
			],
			"nextPageToken": "token-page-2"
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	page, err := client.Search(context.Background(), SearchRequest{
		Query:    "vaccines cause autism",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(page.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page.Records))
	}
	// API order must be preserved.
	if page.Records[0].Text != "Vaccines cause autism" {
		t.Errorf("Unexpected first record: %s", page.Records[0].Text)
	}
	if page.Records[1].Text != "MMR vaccine linked to autism" {
		t.Errorf("Unexpected second record: %s", page.Records[1].Text)
	}
	if page.Records[0].Reviews[0].Publisher.Name != "Snopes" {
		t.Errorf("Unexpected publisher: %s", page.Records[0].Reviews[0].Publisher.Name)
	}
	if page.NextPageToken != "token-page-2" {
		t.Errorf("Expected nextPageToken token-page-2, got %s", page.NextPageToken)
	}
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := client.Search(context.Background(), SearchRequest{Query: query})
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Query %q: expected ValidationError, got %v", query, err)
		}
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("Expected 0 HTTP calls for empty queries, got %d", n)
	}
}

func TestClient_Search_InvalidLanguage(t *testing.T) {
	client, err := NewClient(testConfig("http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Search(context.Background(), SearchRequest{Query: "moon landing", Language: "English"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "language" {
		t.Errorf("Expected field language, got %s", verr.Field)
	}
}

func TestClient_Search_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key invalid"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Search(context.Background(), SearchRequest{Query: "moon landing"})
	var uerr *model.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if uerr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", uerr.StatusCode)
	}
	if uerr.Body == "" {
		t.Error("Expected body snippet in error")
	}
}

func TestClient_Search_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Search(context.Background(), SearchRequest{Query: "moon landing"})
	var uerr *model.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError for malformed JSON, got %v", err)
	}
}

func TestClient_Search_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	page, err := client.Search(context.Background(), SearchRequest{Query: "obscure claim nobody checked"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Records) != 0 {
		t.Errorf("Expected empty page, got %d records", len(page.Records))
	}
	if page.NextPageToken != "" {
		t.Errorf("Expected no next token, got %s", page.NextPageToken)
	}
}

func TestClient_Search_NoClaimsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	page, err := client.Search(context.Background(), SearchRequest{Query: "moon landing"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Records) != 0 {
		t.Errorf("Expected empty page, got %d records", len(page.Records))
	}
}

func TestClient_Search_PageToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageToken"); got != "token-page-2" {
			t.Errorf("Expected pageToken=token-page-2, got %s", got)
		}
		_, _ = w.Write([]byte(`{"claims": [{"text": "Second page claim"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	page, err := client.Search(context.Background(), SearchRequest{
		Query:     "moon landing",
		PageToken: "token-page-2",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].Text != "Second page claim" {
		t.Errorf("Unexpected records: %+v", page.Records)
	}
	// Last page: no token comes back.
	if page.NextPageToken != "" {
		t.Errorf("Expected no next token, got %s", page.NextPageToken)
	}
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Search(ctx, SearchRequest{Query: "moon landing"})
	var uerr *model.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if !uerr.Timeout {
		t.Error("Expected Timeout flag on the error")
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	cfg := model.DefaultConfig()
	_, err := NewClient(cfg)
	var cerr *model.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if cerr.Feature != "search" {
		t.Errorf("Expected feature search, got %s", cerr.Feature)
	}
}
