package llm

import (
	"strings"
	"testing"

	"github.com/dkarpov/truthshield/internal/model"
)

func TestFormatRecords(t *testing.T) {
	records := []model.FactCheckRecord{
		{
			Text:     "The earth is flat",
			Claimant: "Flat earth society",
			Reviews: []model.ClaimReview{
				{
					Publisher:     model.Publisher{Name: "Snopes"},
					URL:           "https://snopes.com/flat-earth",
					TextualRating: "False",
				},
			},
		},
		{
			Text: "Claim with no review",
		},
	}

	out := FormatRecords(records)

	for _, want := range []string{
		"1. Claim: The earth is flat",
		"Claimant: Flat earth society",
		"Rating: False (by Snopes)",
		"Review URL: https://snopes.com/flat-earth",
		"2. Claim: Claim with no review",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	// Missing fields render as N/A, never as empty holes.
	if !strings.Contains(out, "Claimant: N/A") {
		t.Errorf("Expected N/A for missing claimant, got:\n%s", out)
	}
	if !strings.Contains(out, "Rating: N/A (by N/A)") {
		t.Errorf("Expected N/A rating for a record without reviews, got:\n%s", out)
	}
}

func TestFormatRecords_Empty(t *testing.T) {
	out := FormatRecords(nil)
	if out != "No fact-check results found for the query." {
		t.Errorf("Unexpected empty-records text: %q", out)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	out := BuildSystemPrompt("Is the earth flat?", "Here are the fact-check results found:\n1. ...")

	if !strings.Contains(out, "'Is the earth flat?'") {
		t.Error("Expected the user query embedded in the prompt")
	}
	if !strings.Contains(out, "Here are the fact-check results found:") {
		t.Error("Expected the fact-check context embedded in the prompt")
	}
	if !strings.Contains(out, "based *only* on those results") {
		t.Error("Expected the grounding instruction in the prompt")
	}
}

func TestNoResultsContextDistinctFromFailure(t *testing.T) {
	empty := NoResultsContext("flat earth")
	failed := SearchFailedContext("flat earth", &model.UpstreamError{API: "factcheck", StatusCode: 500})

	if empty == failed {
		t.Error("Empty and failed search contexts must differ")
	}
	if !strings.Contains(failed, "error") {
		t.Errorf("Failed context should mention the error: %q", failed)
	}
}
