package gemini

// GenerateContentRequest represents a generateContent request body.
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`          // Prompt parts (text and inline images)
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one turn's worth of parts sent to the model.
type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"` // "user" or "model"; optional for single-turn requests
}

// Part is a single piece of multimodal content. Exactly one field is set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64-encoded media embedded directly in the request.
type InlineData struct {
	MIMEType string `json:"mime_type"` // e.g. "image/jpeg"
	Data     string `json:"data"`      // base64 payload, no data-URL prefix
}

// GenerationConfig contains model sampling parameters.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`     // Creativity (0.0-2.0)
	TopK            *int     `json:"topK,omitempty"`            // Top-k sampling
	TopP            *float64 `json:"topP,omitempty"`            // Nucleus sampling threshold
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"` // Max tokens to generate
}

// DefaultGenerationConfig returns the caption-generation sampling parameters:
// creative but bounded-length output.
func DefaultGenerationConfig() *GenerationConfig {
	temperature := 0.7
	topK := 32
	topP := 0.8
	maxOutputTokens := 1024

	return &GenerationConfig{
		Temperature:     &temperature,
		TopK:            &topK,
		TopP:            &topP,
		MaxOutputTokens: &maxOutputTokens,
	}
}

// NewCaptionRequest builds a single-turn request pairing a text prompt with
// one inline image, using the default generation parameters.
func NewCaptionRequest(prompt, mimeType, imageData string) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents: []Content{
			{
				Parts: []Part{
					{Text: prompt},
					{InlineData: &InlineData{MIMEType: mimeType, Data: imageData}},
				},
			},
		},
		GenerationConfig: DefaultGenerationConfig(),
	}
}
