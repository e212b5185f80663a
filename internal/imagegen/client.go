package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shuheykoyama/tnap/internal/errors"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "dall-e-3"
	defaultSize    = "1024x1024"
)

// Config captures the settings required to talk to the images API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
}

// SourceRef points at generated content that still has to be downloaded.
type SourceRef struct {
	URL           string
	RevisedPrompt string
}

// Client wraps the OpenAI image generation endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an images client. Requests carry no deadline of their
// own; callers bound them through ctx if they need to.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimSpace(cfg.BaseURL),
			Model:   strings.TrimSpace(cfg.Model),
			Size:    strings.TrimSpace(cfg.Size),
		},
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.cfg.Size == "" {
		client.cfg.Size = defaultSize
	}
	return client
}

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type generationResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// RequestGeneration asks the API for one image matching prompt and returns
// where to fetch it. It makes exactly one round trip.
func (c *Client) RequestGeneration(ctx context.Context, prompt string) (SourceRef, error) {
	var empty SourceRef
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: prompt required", nil)
	}
	if c.cfg.APIKey == "" {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: api key required", nil)
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "images", "generations")
	if err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: build url", err)
	}
	encoded, err := json.Marshal(generationRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		N:      1,
		Size:   c.cfg.Size,
	})
	if err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: encode body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: new request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation",
			&httpStatusError{StatusCode: resp.StatusCode, Body: apiErrorMessage(body)})
	}

	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: decode response", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: "+parsed.Error.Message, nil)
	}
	if len(parsed.Data) == 0 || strings.TrimSpace(parsed.Data[0].URL) == "" {
		return empty, errors.NewWithKind(errors.GenerationFailed, "image generation: response carried no image url", nil)
	}

	return SourceRef{
		URL:           strings.TrimSpace(parsed.Data[0].URL),
		RevisedPrompt: strings.TrimSpace(parsed.Data[0].RevisedPrompt),
	}, nil
}

func apiErrorMessage(body []byte) string {
	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return snippet
}
