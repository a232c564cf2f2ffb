// Package proxy provides the stateless HTTP endpoint that turns an uploaded
// image into AI-generated social-media captions via the Gemini API.
package proxy

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/capchatco/capchat/pkg/captions"
	"github.com/capchatco/capchat/pkg/gemini"
	"github.com/capchatco/capchat/pkg/imageenc"
)

// Proxy is the captions API server. It holds no per-session state: every
// request carries its own image and prompt, is forwarded upstream, and the
// normalized result is relayed back.
type Proxy struct {
	config Config
	client *gemini.Client
	logger *zap.Logger
	server *fiber.App
}

// New creates a new Proxy.
func New(config Config, logger *zap.Logger) *Proxy {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).
					JSON(captions.ErrorResponse{Error: fiberErr.Message})
			}

			// Last-resort boundary: nothing below may leak a raw fault.
			logger.Error("unhandled error in request handler", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).
				JSON(captions.ErrorResponse{Error: "Internal server error"})
		},
	})
	app.Use(recover.New())

	p := &Proxy{
		config: config,
		client: gemini.NewClient(config.UpstreamURL, config.Model, config.APIKey),
		logger: logger,
		server: app,
	}

	// Register routes
	app.Post("/captions", p.handleCaptions)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return p
}

// Run starts the proxy server on the configured listening address.
func (p *Proxy) Run() error {
	p.logger.Info("starting captions proxy",
		zap.String("listen", p.config.ListenAddr),
		zap.String("model", p.config.Model),
	)

	return p.server.Listen(p.config.ListenAddr)
}

// Shutdown gracefully stops the server.
func (p *Proxy) Shutdown() error {
	return p.server.Shutdown()
}

// handleCaptions accepts {image, prompt}, forwards the image to Gemini with
// the caption-generation prompt, and relays the generated text or a
// normalized error.
func (p *Proxy) handleCaptions(c *fiber.Ctx) error {
	// Fail fast on a missing credential; no upstream call is attempted.
	if p.config.APIKey == "" {
		p.logger.Error("missing Gemini API key in environment variables")
		return c.Status(fiber.StatusInternalServerError).
			JSON(captions.ErrorResponse{Error: gemini.ErrMissingAPIKey.Error()})
	}

	var req captions.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		p.logger.Error("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).
			JSON(captions.ErrorResponse{Error: "invalid request body"})
	}

	mime, payload, err := imageenc.Split(req.Image)
	if err != nil {
		p.logger.Error("invalid image data URL", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).
			JSON(captions.ErrorResponse{Error: "image must be a base64 data URL"})
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = captions.DefaultPrompt
	}

	upstreamReq := gemini.NewCaptionRequest(prompt, mime, payload)
	upstreamReq.GenerationConfig = p.config.generationConfig()

	p.logger.Debug("making request to Gemini API",
		zap.String("mime", mime),
		zap.Int("image_bytes", len(payload)),
	)

	resp, err := p.client.GenerateContent(c.Context(), upstreamReq)
	if err != nil {
		return p.relayError(c, err)
	}

	text, err := resp.Text()
	if err != nil {
		p.logger.Error("unexpected response format from upstream")
		return c.Status(fiber.StatusInternalServerError).
			JSON(captions.ErrorResponse{Error: "Unexpected response format from Gemini API"})
	}

	return c.JSON(captions.Response{Text: text, Type: "text"})
}

// relayError converts an upstream failure into the proxy's error contract:
// upstream HTTP statuses pass through with best-effort detail, everything
// else collapses to a generic internal error.
func (p *Proxy) relayError(c *fiber.Ctx, err error) error {
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		p.logger.Error("Gemini API error",
			zap.Int("status", apiErr.StatusCode),
			zap.Any("details", apiErr.Details),
			zap.String("raw", apiErr.Raw),
		)
		return c.Status(apiErr.StatusCode).JSON(captions.ErrorResponse{
			Error:   apiErr.Error(),
			Details: apiErr.Details,
		})
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(captions.ErrorResponse{Error: err.Error()})
	}

	// Transport failures and anything unexpected stay generic.
	p.logger.Error("error processing request", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).
		JSON(captions.ErrorResponse{Error: "Internal server error"})
}
