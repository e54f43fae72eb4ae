package llm

import (
	"fmt"
	"io"

	"github.com/dkarpov/truthshield/internal/model"
)

// Resolve selects the active chat provider from the configured keys, once at
// startup. The two keys are mutually exclusive; when both are set Groq is
// chosen deterministically and the ignored key is reported on warnings.
// With no key configured the chat feature is disabled and a ConfigError is
// returned before any network call; the search feature is unaffected.
func Resolve(cfg model.ChatConfig, warnings io.Writer) (Provider, error) {
	config := ConfigFor(cfg)

	switch {
	case cfg.GroqAPIKey != "" && cfg.GeminiAPIKey != "":
		if warnings != nil {
			fmt.Fprintf(warnings, "Warning: both GROQ_API_KEY and GEMINI_API_KEY are set; using Groq, ignoring GEMINI_API_KEY\n")
		}
		config.APIKey = cfg.GroqAPIKey
		return NewGroqProvider(config)

	case cfg.GroqAPIKey != "":
		config.APIKey = cfg.GroqAPIKey
		return NewGroqProvider(config)

	case cfg.GeminiAPIKey != "":
		config.APIKey = cfg.GeminiAPIKey
		return NewGeminiProvider(config)

	default:
		return nil, &model.ConfigError{Feature: "chat", Reason: "neither GROQ_API_KEY nor GEMINI_API_KEY is set"}
	}
}
