package widget

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

const (
	downloadTimeout  = 60 * time.Second
	downloadMaxBytes = 50 << 20 // 50MB

	defaultImageFilename = "generated-image.png"
)

// FileSaver is implemented by the UI host: it triggers a local
// save-as-file action for fetched bytes. The implementation releases
// any temporary in-memory handle once the save is handed off.
type FileSaver interface {
	SaveFile(ctx context.Context, filename string, data []byte) error
}

// Notifier surfaces user-visible, non-fatal notices (toast, banner).
type Notifier interface {
	Notify(message string)
}

// fetchResource downloads a URL into memory, honoring ctx cancellation
// so a fetch abandoned by a closing session cannot leak.
func fetchResource(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &gwerrors.FetchError{URL: rawURL, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &gwerrors.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &gwerrors.FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, downloadMaxBytes))
	if err != nil {
		return nil, &gwerrors.FetchError{URL: rawURL, Err: err}
	}
	return data, nil
}

// filenameFromURL derives a download filename from the URL's last path
// segment, defaulting when the path carries none.
func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultImageFilename
	}
	segments := strings.Split(u.Path, "/")
	name := segments[len(segments)-1]
	if name == "" {
		return defaultImageFilename
	}
	return name
}

func fetchFailureNotice(err error) string {
	return fmt.Sprintf("Image download failed: %v", err)
}

func saveFailureNotice(err error) string {
	return fmt.Sprintf("Saving image failed: %v", err)
}
