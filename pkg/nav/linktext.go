package nav

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

const (
	titleFetchTimeout = 10 * time.Second
	titleFetchMaxBody = 512 * 1024
)

// LinkText derives human-readable link text from a URL's last path
// segment, e.g. "https://x/agent-management" -> "Open Agent Management".
func LinkText(rawURL string) string {
	u, err := url.Parse(normalizeURL(rawURL))
	if err != nil {
		return "Open link"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	name := segments[len(segments)-1]
	if name == "" {
		name = u.Hostname()
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Open link"
	}
	return "Open " + strings.Join(words, " ")
}

// TitleResolver fetches a page and extracts a display title from its
// OpenGraph metadata, falling back to the HTML <title> element. Used
// to enrich navigation descriptions; every failure degrades to the
// path-derived LinkText.
type TitleResolver struct {
	Client *http.Client
}

// Resolve returns the page title for rawURL, or LinkText(rawURL) when
// the page cannot be fetched or carries no usable title.
func (tr *TitleResolver) Resolve(ctx context.Context, rawURL string) string {
	client := tr.Client
	if client == nil {
		client = &http.Client{Timeout: titleFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeURL(rawURL), nil)
	if err != nil {
		return LinkText(rawURL)
	}
	resp, err := client.Do(req)
	if err != nil {
		return LinkText(rawURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return LinkText(rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, titleFetchMaxBody))
	if err != nil {
		return LinkText(rawURL)
	}

	if title := extractTitle(body); title != "" {
		return title
	}
	return LinkText(rawURL)
}

func extractTitle(body []byte) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err == nil && og.Title != "" {
		return strings.TrimSpace(og.Title)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
