package gemini

import "errors"

// ErrMalformedResponse indicates a 2xx upstream response whose body does not
// carry the expected candidates/content/parts structure. Treated as an
// upstream contract violation, never retried.
var ErrMalformedResponse = errors.New("unexpected response format from Gemini API")

// GenerateContentResponse represents a generateContent response body.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated completion.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
	Index        int      `json:"index,omitempty"`
}

// Text extracts the first candidate's generated text. The structure is
// validated in full before any field access; a missing candidate, content,
// or part yields ErrMalformedResponse rather than a partial result.
func (r *GenerateContentResponse) Text() (string, error) {
	if len(r.Candidates) == 0 {
		return "", ErrMalformedResponse
	}

	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrMalformedResponse
	}

	return content.Parts[0].Text, nil
}
