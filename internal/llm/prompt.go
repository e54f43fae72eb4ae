package llm

import (
	"fmt"
	"strings"

	"github.com/dkarpov/truthshield/internal/model"
)

// BaseSystemPrompt seeds every conversation. Each chat turn replaces it with
// a per-turn prompt carrying the current fact-check context; the session
// keeps this base message.
const BaseSystemPrompt = "You are a helpful and friendly assistant designed to discuss fact-checking information."

// DefaultContext is used when no checkable topic was found in the user query.
const DefaultContext = "Please provide a specific claim or topic to check."

// FormatRecords renders fact-check records into the block embedded in the
// per-turn system prompt.
func FormatRecords(records []model.FactCheckRecord) string {
	if len(records) == 0 {
		return "No fact-check results found for the query."
	}

	var b strings.Builder
	b.WriteString("Here are the fact-check results found:\n\n")
	for i, record := range records {
		review := model.ClaimReview{}
		if len(record.Reviews) > 0 {
			review = record.Reviews[0]
		}

		fmt.Fprintf(&b, "%d. Claim: %s\n", i+1, orNA(record.Text))
		fmt.Fprintf(&b, "   Claimant: %s\n", orNA(record.Claimant))
		fmt.Fprintf(&b, "   Rating: %s (by %s)\n", orNA(review.TextualRating), orNA(review.Publisher.Name))
		fmt.Fprintf(&b, "   Review URL: %s\n\n", orNA(review.URL))
	}
	return strings.TrimSpace(b.String())
}

// NoResultsContext describes an empty but successful search, which must stay
// distinguishable from a failed one.
func NoResultsContext(topic string) string {
	return fmt.Sprintf("No specific fact-check results found for: '%s'.", topic)
}

// SearchFailedContext describes a failed search so the reply can acknowledge
// it instead of inventing verdicts.
func SearchFailedContext(topic string, err error) string {
	return fmt.Sprintf("Could not retrieve fact-check results for '%s' due to an error: %v", topic, err)
}

// BuildSystemPrompt constructs the per-turn system prompt from the user's
// query and the formatted fact-check context.
func BuildSystemPrompt(userQuery, factCheckContext string) string {
	return fmt.Sprintf(`You are a helpful and friendly assistant designed to discuss fact-checking information. The user has asked: '%s'.

Here are the fact-check results relevant to their query:
%s

Instructions:
1. If fact-check results ARE provided, answer the user's query based *only* on those results. Be conversational, mention the key findings (claim, rating, publisher), and include the source URL if available. Do not add information not present in the results.
2. If the results indicate 'No fact-check results found' or similar, acknowledge this clearly and politely. Ask the user if they can provide a more specific claim or topic they'd like to check.
3. If the user's input seems like a greeting or general chat unrelated to fact-checking (like 'Hi' or 'How are you?'), respond conversationally without mentioning fact-checking unless they bring it up.
4. Always be helpful and conversational.`, userQuery, factCheckContext)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
