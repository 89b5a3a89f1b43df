// Package nav implements the navigation strategy shared by tool-driven
// and widget-driven paths. One policy applies per deployment:
// new-tab-with-fallback. An attempt to open a new browsing context
// that fails (blocked popup, headless shell) falls back to
// same-context navigation; the widget path additionally falls back to
// simulating a user click on a hidden link.
package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Opener is implemented by the UI host (browser shell, desktop frame).
// Each method performs the stated action or returns an error; none of
// them retry.
type Opener interface {
	// OpenNewTab opens url in a new browsing context.
	OpenNewTab(ctx context.Context, url string) error
	// Navigate points the current browsing context at url.
	Navigate(ctx context.Context, url string) error
	// ClickThrough simulates a user click on a hidden link element
	// pointed at url. Used only as the widget path's last resort.
	ClickThrough(ctx context.Context, url string) error
}

// Navigator applies the new-tab-with-fallback policy over an Opener.
type Navigator struct {
	opener Opener
	log    zerolog.Logger
}

// NewNavigator wraps the host's opener.
func NewNavigator(opener Opener, log zerolog.Logger) *Navigator {
	return &Navigator{
		opener: opener,
		log:    log.With().Str("component", "nav").Logger(),
	}
}

// Open performs tool-driven navigation. With newTab set, a failed
// new-context attempt falls back to same-context navigation to the
// same URL.
func (n *Navigator) Open(ctx context.Context, url string, newTab bool) error {
	url = normalizeURL(url)
	if !newTab {
		return n.opener.Navigate(ctx, url)
	}
	if err := n.opener.OpenNewTab(ctx, url); err != nil {
		n.log.Debug().Err(err).Str("url", url).Msg("New tab blocked, falling back to same-context navigation")
		return n.opener.Navigate(ctx, url)
	}
	return nil
}

// OpenFromWidget performs widget-driven navigation. The fallback after
// a blocked new context is a simulated click on a hidden link, which
// survives environments where a plain redirect is also suppressed.
func (n *Navigator) OpenFromWidget(ctx context.Context, url string) error {
	url = normalizeURL(url)
	if err := n.opener.OpenNewTab(ctx, url); err != nil {
		n.log.Debug().Err(err).Str("url", url).Msg("New tab blocked, falling back to click-through")
		return n.opener.ClickThrough(ctx, url)
	}
	return nil
}

// normalizeURL defaults bare hosts to https.
func normalizeURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return fmt.Sprintf("https://%s", url)
}
