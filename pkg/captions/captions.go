// Package captions defines the wire contract between the captions proxy and
// its clients.
package captions

// DefaultPrompt is the caption-generation instruction used whenever a request
// carries no prompt of its own.
const DefaultPrompt = "Generate 5 engaging social media captions for this image. " +
	"Make them creative and include relevant hashtags. " +
	"Format each caption on a new line and number them 1-5."

// Request is the body of POST /captions.
type Request struct {
	// Image is a base64 data URL ("data:<mime>;base64,<payload>").
	Image string `json:"image"`

	// Prompt is an optional free-text instruction. Empty means DefaultPrompt.
	Prompt string `json:"prompt,omitempty"`
}

// Response is the success body of POST /captions.
type Response struct {
	Text string `json:"text"`
	Type string `json:"type"` // always "text"
}

// ErrorResponse is the error body of POST /captions.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}
