package model

import "fmt"

// UpstreamError reports a failure from one of the two external APIs: network
// failure, non-success HTTP status, malformed response body, or timeout. The
// caller shows a user-visible message and leaves prior state unchanged.
type UpstreamError struct {
	API        string // "factcheck", "groq", "gemini"
	StatusCode int    // 0 when the request never completed
	Body       string // raw body snippet for diagnostics
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s API timeout", e.API)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API error (%d): %s", e.API, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s API error: %v", e.API, e.Err)
	default:
		return fmt.Sprintf("%s API error", e.API)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConfigError reports missing or invalid credentials. It is fatal for the
// affected feature only: search and chat are gated independently.
type ConfigError struct {
	Feature string // "search", "chat"
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s configuration: %s", e.Feature, e.Reason)
}

// ValidationError rejects bad input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
