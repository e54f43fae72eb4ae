package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkarpov/truthshield/internal/cache"
	"github.com/dkarpov/truthshield/internal/factcheck"
	"github.com/dkarpov/truthshield/internal/model"
	"github.com/dkarpov/truthshield/internal/pipeline"
	"github.com/dkarpov/truthshield/internal/util"
	"github.com/dkarpov/truthshield/internal/worker"
)

// newSearcher builds the fact-check client, wrapped in the response cache
// when enabled.
func newSearcher(cfg *model.Config) (factcheck.Searcher, error) {
	client, err := factcheck.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return client, nil
	}

	memory := cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	return factcheck.NewCachedSearcher(client, memory, cfg.Cache.TTL), nil
}

// newThumbnailResolver builds the review-page thumbnail resolver sharing one
// robots gate and per-host limiter.
func newThumbnailResolver(cfg *model.Config) *util.ThumbnailResolver {
	gate := util.NewRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	limiter := worker.NewLimiter(cfg.Thumbnails.RatePerHost, cfg.Thumbnails.Burst)
	client := &http.Client{
		Timeout: cfg.HTTP.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		},
	}
	return util.NewThumbnailResolver(gate, limiter, client, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes)
}

// attachThumbnails resolves review-page thumbnails for every entry that has
// a review URL. Resolution failures are skipped; thumbnails are a garnish.
func attachThumbnails(ctx context.Context, resolver *util.ThumbnailResolver, report *pipeline.Report) {
	for i, entry := range report.Records {
		if len(entry.Reviews) == 0 || entry.Reviews[0].URL == "" {
			continue
		}
		thumb, err := resolver.Resolve(ctx, entry.Reviews[0].URL)
		if err != nil {
			if verbose {
				fmt.Fprintf(rootCmd.ErrOrStderr(), "Warning: thumbnail for %s: %v\n", entry.Reviews[0].URL, err)
			}
			continue
		}
		report.Records[i].Thumbnail = thumb
	}
}

// printRecords writes records in a plain human-readable list.
func printRecords(w io.Writer, records []model.FactCheckRecord) {
	for i, record := range records {
		fmt.Fprintf(w, "%d. %s\n", i+1, record.Text)
		if record.Claimant != "" {
			fmt.Fprintf(w, "   Claimant:  %s\n", record.Claimant)
		}
		for _, review := range record.Reviews {
			rating := review.TextualRating
			if rating == "" {
				rating = "N/A"
			}
			fmt.Fprintf(w, "   Rating:    %s (by %s)\n", rating, review.Publisher.Name)
			if t, ok := review.ReviewTime(); ok {
				fmt.Fprintf(w, "   Reviewed:  %s\n", t.Format("2 January 2006"))
			}
			if review.URL != "" {
				fmt.Fprintf(w, "   Review:    %s\n", review.URL)
			}
		}
		fmt.Fprintln(w)
	}
}
