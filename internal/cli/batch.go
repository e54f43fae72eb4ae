package cli

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/truthshield/internal/factcheck"
	"github.com/dkarpov/truthshield/internal/pipeline"
	"github.com/dkarpov/truthshield/internal/util"
	"github.com/dkarpov/truthshield/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchLang        string
	batchThumbs      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up fact checks for multiple claims from a file in parallel",
	Long: `Batch reads claims from a file (one per line) and looks each one up
concurrently, writing one JSON report per claim.

Example:
  truthshield batch claims.txt
  truthshield batch claims.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./truthshield-reports", "output directory for reports")
	batchCmd.Flags().StringVar(&batchLang, "lang", "", "result language code (default from config)")
	batchCmd.Flags().BoolVar(&batchThumbs, "thumbnails", false, "resolve review-page thumbnails (slower)")
}

// lookupJob verifies one claim line.
type lookupJob struct {
	query     string
	language  string
	pageSize  int
	searcher  factcheck.Searcher
	resolver  *util.ThumbnailResolver
	outputDir string
}

// lookupResult reports one finished lookup.
type lookupResult struct {
	query   string
	records int
	path    string
	err     error
}

func (r *lookupResult) Err() error { return r.err }

func (j *lookupJob) Execute(ctx context.Context) worker.Result {
	page, err := j.searcher.Search(ctx, factcheck.SearchRequest{
		Query:    j.query,
		Language: j.language,
		PageSize: j.pageSize,
	})
	if err != nil {
		return &lookupResult{query: j.query, err: err}
	}

	report := pipeline.NewReport(j.query, j.language, page.Records, page.NextPageToken)
	if j.resolver != nil {
		attachThumbnails(ctx, j.resolver, report)
	}

	path := filepath.Join(j.outputDir, reportFilename(j.query))
	if err := report.WriteJSON(path); err != nil {
		return &lookupResult{query: j.query, err: err}
	}

	return &lookupResult{query: j.query, records: len(page.Records), path: path}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	cfg := loadConfig()
	if batchLang != "" {
		cfg.FactCheck.Language = batchLang
	}

	searcher, err := newSearcher(cfg)
	if err != nil {
		return err
	}

	var resolver *util.ThumbnailResolver
	if batchThumbs {
		resolver = newThumbnailResolver(cfg)
	}

	queries, err := readClaims(file)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Looking up %d claims with %d workers\n", len(queries), batchConcurrency)

	pool := worker.NewPool(batchConcurrency)
	pool.Start()
	for _, query := range queries {
		pool.Submit(&lookupJob{
			query:     query,
			language:  cfg.FactCheck.Language,
			pageSize:  cfg.FactCheck.PageSize,
			searcher:  searcher,
			resolver:  resolver,
			outputDir: batchOutputDir,
		})
	}
	results := pool.Wait()

	var failed int
	for _, res := range results {
		lookup := res.(*lookupResult)
		if lookup.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", lookup.query, lookup.err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %d records -> %s\n", lookup.query, lookup.records, lookup.path)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d succeeded, %d failed, reports in %s\n", len(results)-failed, failed, batchOutputDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

// readClaims reads one claim per line, skipping blanks and # comments.
func readClaims(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claims file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	return queries, nil
}

// reportFilename derives a stable filename from the claim text.
func reportFilename(query string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, query)
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = slug[:48]
	}

	// Claims can collide after slugging; a short hash keeps names unique.
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s-%s.json", slug, hex.EncodeToString(hash[:4]))
}
