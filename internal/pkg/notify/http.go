package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

const maxResponseBytes = 1 << 20

func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// do sends req and returns the response body as JSON. Non-2xx responses
// become a ProviderError named after provider.
func do(ctx context.Context, client *http.Client, provider string, req *http.Request) (json.RawMessage, error) {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		// url.Error repeats the request URL, which can embed a bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %s request failed: %v", apperrors.ErrTransport, provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", apperrors.ErrTransport, provider, err)
	}

	payload := asJSON(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(payload)}
	}
	return payload, nil
}

// asJSON compacts a JSON body, or quotes a non-JSON one so it can still be embedded
func asJSON(body []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil && buf.Len() > 0 {
		return buf.Bytes()
	}
	quoted, _ := json.Marshal(strings.TrimSpace(string(body)))
	return quoted
}

func newJSONRequest(url string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
