package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

const (
	defaultGeminiModel   = "gemini-flash-latest"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxGeminiBytes       = 4 << 20
)

// Generator turns a prompt into model text
type Generator interface {
	// Ready reports missing configuration before any work is done
	Ready() error
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// ConfigError names a setting the backend needs but does not have
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not set in the server configuration.", e.Setting)
}

func (e *ConfigError) Unwrap() error {
	return apperrors.ErrConfiguration
}

// UpstreamError is an error reported by the model API
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return "Gemini API Error: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return apperrors.ErrUpstream
}

// ErrNoContent is returned when the model response has no candidate text
var ErrNoContent = apperrors.NewCustomError(apperrors.ErrUpstream, "Failed to generate content from Gemini.")

// GeminiConfig configures the Gemini generateContent API
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient calls the Gemini generateContent endpoint. Calls are never retried.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client; an empty key is reported per request
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Ready fails when no API key is configured
func (c *GeminiClient) Ready() error {
	if c.apiKey == "" {
		return &ConfigError{Setting: "GEMINI_API_KEY"}
	}
	return nil
}

// Generate sends the prompt as a single text part and returns the first candidate's text
func (c *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt.Text()}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the request URL carries the key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("%w: Gemini request failed: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxGeminiBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read Gemini response: %v", apperrors.ErrTransport, err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &UpstreamError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return "", ErrNoContent
	}
	if parsed.Error != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: parsed.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrNoContent
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
