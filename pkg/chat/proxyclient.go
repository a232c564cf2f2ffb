package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/capchatco/capchat/pkg/captions"
)

// ProxyClient is a Captioner backed by a running captions proxy. It is what
// the chat client uses in place of the browser's fetch call.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient creates a client for the proxy at baseURL
// (e.g. "http://localhost:8080").
func NewProxyClient(baseURL string) *ProxyClient {
	return &ProxyClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// The proxy's upstream call is bounded at five minutes; allow
			// slightly more so its error reaches us instead of a local timeout.
			Timeout: 6 * time.Minute,
		},
	}
}

// Caption posts the image and prompt to the proxy's /captions route and
// returns the generated text. Proxy error bodies become the error message,
// so upstream failures read the same here as in the server logs.
func (c *ProxyClient) Caption(ctx context.Context, image string, prompt string) (string, error) {
	reqBody, err := json.Marshal(captions.Request{Image: image, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/captions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var errResp captions.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return "", errors.New(errResp.Error)
		}
		return "", fmt.Errorf("API returned %d", httpResp.StatusCode)
	}

	var resp captions.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return resp.Text, nil
}
