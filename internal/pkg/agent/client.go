package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// Invoker runs a named action and returns the raw result text
type Invoker interface {
	Invoke(ctx context.Context, action string, payload any) (string, error)
}

// HTTPInvoker calls a remote agent endpoint, POST {action, payload}
type HTTPInvoker struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPInvoker creates an invoker for endpoint, e.g. http://host/api/v1/agent.
// token, when set, is sent as a bearer token.
func NewHTTPInvoker(endpoint, token string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{endpoint: endpoint, token: token, client: &http.Client{Timeout: timeout}}
}

type invokeRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type invokeResponse struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

// Invoke posts the action and surfaces the server's error text on failure
func (h *HTTPInvoker) Invoke(ctx context.Context, action string, payload any) (string, error) {
	body, err := json.Marshal(invokeRequest{Action: action, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxGeminiBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	var parsed invokeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: agent endpoint returned %d", apperrors.ErrTransport, resp.StatusCode)
	}
	if parsed.Error != "" {
		return "", apperrors.NewCustomError(apperrors.ErrUpstream, parsed.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.Result == nil {
		return "", fmt.Errorf("%w: agent endpoint returned %d", apperrors.ErrTransport, resp.StatusCode)
	}
	return *parsed.Result, nil
}

// StripFences removes ```json and ``` markers and surrounding whitespace
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ErrInvalidDataFormat is returned when a JSON result cannot be parsed
var ErrInvalidDataFormat = apperrors.NewCustomError(apperrors.ErrParse, "AI returned invalid data format")

// BrainstormMode selects what the brainstorm page asks for
type BrainstormMode string

const (
	BrainstormUniversities BrainstormMode = "universities"
	BrainstormEssayIdeas   BrainstormMode = "essays"
	BrainstormStrategy     BrainstormMode = "strategy"
)

// BrainstormResult holds the parsed JSON in universities mode, or the raw text.
// Suggestions is passed through as the model wrote it.
type BrainstormResult struct {
	Mode        BrainstormMode  `json:"mode"`
	Suggestions json.RawMessage `json:"suggestions,omitempty"`
	Text        string          `json:"text,omitempty"`
}

// ParseBrainstormMode validates a mode name
func ParseBrainstormMode(name string) (BrainstormMode, error) {
	switch mode := BrainstormMode(name); mode {
	case BrainstormUniversities, BrainstormEssayIdeas, BrainstormStrategy:
		return mode, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown brainstorm mode %q", name))
}

// Client is the caller-side contract over an Invoker: one method per call site,
// each with its own parsing rules.
type Client struct {
	invoker Invoker
}

// NewClient creates a client over any invoker
func NewClient(invoker Invoker) *Client {
	return &Client{invoker: invoker}
}

// GenerateReport returns a markdown report for the student record
func (c *Client) GenerateReport(ctx context.Context, student any) (string, error) {
	return c.invoker.Invoke(ctx, ActionGenerateReport, student)
}

// SummarizeText returns a summary of text
func (c *Client) SummarizeText(ctx context.Context, text string) (string, error) {
	return c.invoker.Invoke(ctx, ActionSummarizeText, map[string]string{"text": text})
}

// SummarizeURL returns a summary of the page at url
func (c *Client) SummarizeURL(ctx context.Context, url string) (string, error) {
	return c.invoker.Invoke(ctx, ActionSummarizeURL, map[string]string{"url": url})
}

// ExtractUniversityInfo returns a university record read from the page at url.
// Malformed JSON after fence stripping is a hard failure; placeholder values
// such as "TBD" in place of the scholarship list are accepted.
func (c *Client) ExtractUniversityInfo(ctx context.Context, url string) (*models.University, error) {
	result, err := c.invoker.Invoke(ctx, ActionExtractUniversityInfo, map[string]string{"url": url})
	if err != nil {
		return nil, err
	}
	return decodeUniversity([]byte(StripFences(result)))
}

// Brainstorm runs the action for mode. Only universities mode parses JSON, and
// a parse failure there falls back to the raw text.
func (c *Client) Brainstorm(ctx context.Context, mode BrainstormMode, student any, userNotes string) (*BrainstormResult, error) {
	if _, err := ParseBrainstormMode(string(mode)); err != nil {
		return nil, err
	}
	action := ActionSuggestUniversities
	switch mode {
	case BrainstormEssayIdeas:
		action = ActionBrainstormEssays
	case BrainstormStrategy:
		action = ActionReviewStrategy
	}

	result, err := c.invoker.Invoke(ctx, action, map[string]any{"student": student, "userNotes": userNotes})
	if err != nil {
		return nil, err
	}

	out := &BrainstormResult{Mode: mode}
	if mode == BrainstormUniversities {
		if stripped := StripFences(result); json.Valid([]byte(stripped)) {
			out.Suggestions = json.RawMessage(stripped)
			return out, nil
		}
	}
	out.Text = result
	return out, nil
}
