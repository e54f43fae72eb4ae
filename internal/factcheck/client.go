// Package factcheck wraps the fact-check search HTTP API: it builds query
// parameters, issues a single GET per call, and parses the JSON body into a
// normalized record page. No retries are performed here; retry is a
// user-initiated re-submission.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkarpov/truthshield/internal/model"
	"github.com/dkarpov/truthshield/internal/util"
)

// DefaultEndpoint is the claims:search endpoint of the fact-check API.
const DefaultEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

const bodySnippetLimit = 512

var languageCodePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2})?$`)

// Searcher is the search contract consumed by the orchestration layer.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*Page, error)
}

// SearchRequest carries the parameters of one search call.
type SearchRequest struct {
	Query     string
	Language  string // optional; API default applies when empty
	PageSize  int    // optional; client default applies when <= 0
	PageToken string // opaque cursor from a prior page, never parsed
}

// Page is one page of search results in API order.
type Page struct {
	Records       []model.FactCheckRecord `json:"records"`
	NextPageToken string                  `json:"nextPageToken,omitempty"`
}

// Client calls the fact-check search API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	userAgent  string
	pageSize   int
	maxBytes   int64
}

// NewClient creates a fact-check client. A missing API key is fatal for the
// search feature.
func NewClient(cfg *model.Config) (*Client, error) {
	if cfg.FactCheck.APIKey == "" {
		return nil, &model.ConfigError{Feature: "search", Reason: "GOOGLE_API_KEY is not set"}
	}

	endpoint := cfg.FactCheck.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	pageSize := cfg.FactCheck.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
			},
		},
		endpoint:  endpoint,
		apiKey:    cfg.FactCheck.APIKey,
		userAgent: cfg.HTTP.UserAgent,
		pageSize:  pageSize,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
	}, nil
}

// Search issues one GET against the claims:search endpoint. Results keep API
// order. A (possibly empty) page or a typed error is returned, never a
// partial record set.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, &model.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if req.Language != "" && !languageCodePattern.MatchString(req.Language) {
		return nil, &model.ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported code %q", req.Language)}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	if req.Language != "" {
		params.Set("languageCode", req.Language)
	}
	if req.PageToken != "" {
		params.Set("pageToken", req.PageToken)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.UpstreamError{API: "factcheck", Timeout: isTimeout(err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, &model.UpstreamError{API: "factcheck", Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &model.UpstreamError{API: "factcheck", StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	// The API answers an empty body when nothing matches.
	if len(strings.TrimSpace(string(body))) == 0 {
		return &Page{}, nil
	}

	var payload struct {
		Claims        []model.FactCheckRecord `json:"claims"`
		NextPageToken string                  `json:"nextPageToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &model.UpstreamError{API: "factcheck", StatusCode: resp.StatusCode, Body: snippet(body), Err: err}
	}

	return &Page{
		Records:       payload.Claims,
		NextPageToken: payload.NextPageToken,
	}, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLimit {
		s = s[:bodySnippetLimit] + "..."
	}
	return s
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
