package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxPageBytes = 5 << 20

// PageFetcher retrieves a web page as plain text
type PageFetcher interface {
	// FetchText returns at most limit characters of the page's visible text
	FetchText(ctx context.Context, pageURL string, limit int) (string, error)
}

// FetchError reports a non-2xx page response
type FetchError struct {
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch URL: %d %s", e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error {
	return apperrors.ErrTransport
}

// HTTPPageFetcher fetches pages over HTTP and strips them to text
type HTTPPageFetcher struct {
	client *http.Client
}

// NewHTTPPageFetcher creates a fetcher with the given request timeout
func NewHTTPPageFetcher(timeout time.Duration) *HTTPPageFetcher {
	return &HTTPPageFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchText GETs pageURL and reduces the HTML to text
func (f *HTTPPageFetcher) FetchText(ctx context.Context, pageURL string, limit int) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.NewValidationError(fmt.Sprintf("invalid URL %q", pageURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AgentCommand/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	text, err := HTMLToText(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return truncate(text, limit), nil
}

// HTMLToText drops script and style elements, replaces tags with spaces and
// collapses whitespace
func HTMLToText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.Join(strings.Fields(b.String()), " "), nil
			}
			return "", fmt.Errorf("%w: reading page: %v", apperrors.ErrTransport, z.Err())
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Script || a == atom.Style {
				skipDepth++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); (a == atom.Script || a == atom.Style) && skipDepth > 0 {
				skipDepth--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
