package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const userAgent = "Mozilla/5.0 (compatible; devtimeline/1.0)"

// ReadabilityExtractor downloads a page and keeps its main text.
type ReadabilityExtractor struct {
	client *http.Client
}

func NewReadabilityExtractor(timeout time.Duration) *ReadabilityExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReadabilityExtractor{client: &http.Client{Timeout: timeout}}
}

func (e *ReadabilityExtractor) Extract(ctx context.Context, link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", link, resp.StatusCode)
	}

	page, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", link, err)
	}
	return strings.TrimSpace(page.TextContent), nil
}
