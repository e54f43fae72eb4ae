package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dkarpov/truthshield/internal/model"
)

// Report is the JSON artifact written by the search and batch commands.
type Report struct {
	Query         string        `json:"query"`
	Language      string        `json:"language,omitempty"`
	FetchedAt     time.Time     `json:"fetched_at"`
	Records       []RecordEntry `json:"records"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// RecordEntry is one record in a report, with its derived identity and an
// optionally resolved thumbnail.
type RecordEntry struct {
	ID string `json:"id"`
	model.FactCheckRecord
	Thumbnail string `json:"thumbnail,omitempty"`
}

// NewReport builds a report from the records of one or more pages.
func NewReport(query, language string, records []model.FactCheckRecord, nextPageToken string) *Report {
	entries := make([]RecordEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, RecordEntry{
			ID:              record.ID(),
			FactCheckRecord: record,
		})
	}
	return &Report{
		Query:         query,
		Language:      language,
		FetchedAt:     time.Now().UTC(),
		Records:       entries,
		NextPageToken: nextPageToken,
	}
}

// WriteJSON writes the report to path as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
