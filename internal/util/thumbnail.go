package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/dkarpov/truthshield/internal/worker"
)

// ThumbnailResolver fetches a review page and extracts its social-preview
// image URL. Fetches respect robots.txt and a per-host rate limit.
type ThumbnailResolver struct {
	gate       *RobotsGate
	limiter    *worker.Limiter
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewThumbnailResolver creates a resolver using the shared robots gate and
// per-host limiter.
func NewThumbnailResolver(gate *RobotsGate, limiter *worker.Limiter, client *http.Client, userAgent string, maxBytes int64) *ThumbnailResolver {
	return &ThumbnailResolver{
		gate:       gate,
		limiter:    limiter,
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// Resolve returns the og:image URL of the review page, falling back to
// twitter:image. Returns an empty string when the page declares neither.
func (r *ThumbnailResolver) Resolve(ctx context.Context, reviewURL string) (string, error) {
	if !r.gate.Allowed(ctx, reviewURL) {
		return "", fmt.Errorf("disallowed by robots.txt: %s", reviewURL)
	}

	if err := r.limiter.Wait(ctx, reviewURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reviewURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch review page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return previewImage(io.LimitReader(resp.Body, r.maxBytes)), nil
}

// previewImage scans the document for preview-image meta tags. og:image wins
// over twitter:image when both are present.
func previewImage(body io.Reader) string {
	var ogImage, twitterImage string

	tokenizer := html.NewTokenizer(body)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if ogImage != "" {
				return ogImage
			}
			return twitterImage

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "meta" {
				continue
			}

			var name, property, content string
			for _, attr := range token.Attr {
				switch strings.ToLower(attr.Key) {
				case "name":
					name = strings.ToLower(attr.Val)
				case "property":
					property = strings.ToLower(attr.Val)
				case "content":
					content = attr.Val
				}
			}

			switch {
			case property == "og:image" && ogImage == "":
				ogImage = content
			case name == "twitter:image" && twitterImage == "":
				twitterImage = content
			}
		}
	}
}
