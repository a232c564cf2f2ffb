package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"

	// DefaultModel generates the captions.
	DefaultModel = "gemini-1.5-pro"
)

// ErrMissingAPIKey is returned before any network call when the client has no
// credential configured.
var ErrMissingAPIKey = errors.New("API key is not configured. Please add GEMINI_API_KEY to your environment variables.")

// Client issues generateContent requests against the Gemini API.
// It is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Gemini client. baseURL and model fall back to the
// package defaults when empty.
func NewClient(baseURL, model, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Vision requests can be slow; bounded rather than indefinite
			Timeout: 5 * time.Minute,
		},
	}
}

// GenerateContent forwards the request to the generateContent endpoint and
// returns the decoded response. Non-2xx statuses come back as *APIError with
// the upstream body attached, parsed as JSON when possible.
func (c *Client) GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: httpResp.StatusCode}

		var details map[string]any
		if err := json.Unmarshal(body, &details); err == nil {
			apiErr.Details = details
		} else {
			apiErr.Raw = string(body)
		}

		return nil, apiErr
	}

	var resp GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
