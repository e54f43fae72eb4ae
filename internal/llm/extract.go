package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkarpov/truthshield/internal/model"
)

// NoClaim is the sentinel the extraction model returns when the user query
// carries no checkable factual claim.
const NoClaim = "NO_CLAIM"

const extractionTemperature = 0.1

// TopicExtractor asks a small model for the core factual claim or topic in a
// user query, so the fact-check search runs on the claim rather than on
// conversational filler.
type TopicExtractor struct {
	provider Provider
	model    string
}

// NewTopicExtractor creates an extractor on the given provider. An empty
// model falls back to the provider's extraction model.
func NewTopicExtractor(provider Provider, extractionModel string) *TopicExtractor {
	if extractionModel == "" {
		type hasExtractionModel interface{ ExtractionModel() string }
		if p, ok := provider.(hasExtractionModel); ok {
			extractionModel = p.ExtractionModel()
		}
	}
	return &TopicExtractor{provider: provider, model: extractionModel}
}

// Extract returns the extracted topic and whether one was found. Greetings,
// vague requests, and general chat yield found=false.
func (e *TopicExtractor) Extract(ctx context.Context, userQuery string) (string, bool, error) {
	reply, err := e.provider.Complete(ctx, CompletionRequest{
		Messages: []model.ChatMessage{
			model.NewMessage(model.RoleUser, buildExtractionPrompt(userQuery)),
		},
		Model:       e.model,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return "", false, err
	}

	topic := strings.TrimSpace(reply.Text)
	topic = strings.Trim(topic, `"'`)
	if topic == "" || strings.EqualFold(topic, NoClaim) {
		return "", false, nil
	}
	return topic, true, nil
}

func buildExtractionPrompt(userQuery string) string {
	return fmt.Sprintf(`Analyze the following user query: '%s'

Instructions:
Your task is to identify the core factual claim or topic from the user query.
Return ONLY the concise claim/topic string itself.
If the query is a greeting, general chat, a vague request (like "latest news"), or doesn't contain a checkable factual claim, return the exact string "NO_CLAIM".

DO NOT include any explanatory text, labels, or phrases like "Extracted Topic:", "The claim is:", or "The core factual claim or topic being asked about is:".
Your response must be ONLY the extracted claim/topic or the string "NO_CLAIM".

Examples:
- User query: "Is the earth flat?"
  YOUR RESPONSE: "Is the earth flat?"
- User query: "Tell me about the moon landing."
  YOUR RESPONSE: "moon landing"
- User query: "Hi there!"
  YOUR RESPONSE: "NO_CLAIM"
- User query: "What's the news?"
  YOUR RESPONSE: "NO_CLAIM"

User query: '%s'
YOUR RESPONSE:`, userQuery, userQuery)
}
