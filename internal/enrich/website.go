// Package enrich fetches a short context snippet from a company website for
// prompt construction. Enrichment failures are always soft: the caller gets
// an empty snippet and continues.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxSnippetLen = 500
	userAgent     = "internship-outreach/1.0"
)

// Fetcher retrieves website context snippets.
type Fetcher struct {
	http *http.Client
}

// NewFetcher creates a Fetcher with a short request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{http: &http.Client{Timeout: 10 * time.Second}}
}

// FetchContext downloads the page and condenses its title, meta description
// and first headings into one snippet for the drafting prompt.
func (f *Fetcher) FetchContext(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("enrich: parse url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("enrich: url %q has no host", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("enrich: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrich: fetch %s: %w", parsed.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("enrich: %s answered %d", parsed.Host, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("enrich: parse html: %w", err)
	}
	return Summarize(doc), nil
}

// Summarize condenses a parsed page into a single short text snippet.
func Summarize(doc *goquery.Document) string {
	var parts []string

	if title := clean(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = clean(desc); desc != "" {
			parts = append(parts, desc)
		}
	}
	doc.Find("h1, h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if text := clean(s.Text()); text != "" {
			parts = append(parts, text)
		}
		return i < 2
	})

	snippet := strings.Join(dedupe(parts), " — ")
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen]
	}
	return snippet
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(parts []string) []string {
	seen := make(map[string]bool, len(parts))
	out := parts[:0]
	for _, p := range parts {
		key := strings.ToLower(p)
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}
