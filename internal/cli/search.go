package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/truthshield/internal/model"
	"github.com/dkarpov/truthshield/internal/pipeline"
	"github.com/dkarpov/truthshield/internal/session"
)

var (
	searchLang     string
	searchPageSize int
	searchPages    int
	searchJSON     string
	searchThumbs   bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search published fact-check records for a claim or topic",
	Long: `Search queries the fact-check API and lists matching claim reviews
in the order the API returns them.

Example:
  truthshield search "vaccines cause autism"
  truthshield search "moon landing" --lang en --pages 3
  truthshield search "5G towers" --json report.json --thumbnails`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchLang, "lang", "", "result language code (default from config)")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "records per page (default from config)")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to walk forward")
	searchCmd.Flags().StringVar(&searchJSON, "json", "", "write a JSON report to this path")
	searchCmd.Flags().BoolVar(&searchThumbs, "thumbnails", false, "resolve review-page thumbnails (slower)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	cfg := loadConfig()
	if searchLang != "" {
		cfg.FactCheck.Language = searchLang
	}
	if searchPageSize > 0 {
		cfg.FactCheck.PageSize = searchPageSize
	}

	searcher, err := newSearcher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout*2)
	defer cancel()

	sess := session.New(cfg.FactCheck.Language, cfg.FactCheck.PageSize)
	assistant := pipeline.NewAssistant(searcher, nil, "")

	var records []model.FactCheckRecord
	outcome, err := assistant.Handle(ctx, sess, pipeline.SearchSubmitted{Query: query})
	if err != nil {
		return err
	}
	records = append(records, outcome.Records...)

	// Forward-only walk over the remaining requested pages.
	for page := 1; page < searchPages && outcome.HasNext; page++ {
		outcome, err = assistant.Handle(ctx, sess, pipeline.NextPageRequested{})
		if err != nil {
			return err
		}
		records = append(records, outcome.Records...)
	}

	if len(records) == 0 {
		fmt.Printf("No fact checks found matching: %s\n", query)
		return nil
	}

	var nextToken string
	if token, ok := sess.NextToken(); ok {
		nextToken = token
	}
	report := pipeline.NewReport(query, cfg.FactCheck.Language, records, nextToken)

	if searchThumbs {
		attachThumbnails(ctx, newThumbnailResolver(cfg), report)
	}

	fmt.Printf("Found %d fact checks for: %s\n\n", len(records), query)
	printRecords(os.Stdout, records)
	if outcome.HasNext {
		fmt.Println("More results are available; increase --pages to walk further.")
	}

	if searchJSON != "" {
		if err := report.WriteJSON(searchJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", searchJSON)
		}
	}

	return nil
}
