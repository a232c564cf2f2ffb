// Package gemini provides internal representations of Gemini generateContent
// API requests and responses and a minimal HTTP client for issuing them.
package gemini

import (
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the Gemini API.
type APIError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Details is the parsed JSON error body, when the body was parseable.
	Details map[string]any

	// Raw is the unparsed body text, kept when the body was not valid JSON.
	Raw string
}

func (e *APIError) Error() string {
	// 403 is the most common operator misconfiguration, so it gets a hint.
	if e.StatusCode == http.StatusForbidden {
		return "Gemini API error: 403 Forbidden. This usually indicates an issue with your API key or permissions."
	}

	if e.Raw != "" {
		return fmt.Sprintf("Gemini API error: %d - %s", e.StatusCode, e.Raw)
	}

	return fmt.Sprintf("Gemini API error: %d", e.StatusCode)
}
