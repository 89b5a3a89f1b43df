package widget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
	"github.com/cekat/assistant-gateway/pkg/nav"
)

type memorySaver struct {
	filename string
	data     []byte
	err      error
}

func (s *memorySaver) SaveFile(_ context.Context, filename string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.filename = filename
	s.data = data
	return nil
}

type memoryNotifier struct {
	notices []string
}

func (n *memoryNotifier) Notify(message string) {
	n.notices = append(n.notices, message)
}

type widgetOpener struct {
	opened []string
	fail   bool
}

func (o *widgetOpener) OpenNewTab(_ context.Context, url string) error {
	if o.fail {
		return errors.New("popup blocked")
	}
	o.opened = append(o.opened, url)
	return nil
}

func (o *widgetOpener) Navigate(context.Context, string) error { return nil }

func (o *widgetOpener) ClickThrough(_ context.Context, url string) error {
	o.opened = append(o.opened, "click:"+url)
	return nil
}

func testRouter(opener nav.Opener, saver FileSaver, notifier Notifier, relay *RelayClient) *Router {
	return NewRouter(nav.NewNavigator(opener, zerolog.Nop()), saver, notifier, relay, http.DefaultClient, zerolog.Nop())
}

func TestRouteNavigationOpen(t *testing.T) {
	opener := &widgetOpener{}
	router := testRouter(opener, &memorySaver{}, &memoryNotifier{}, nil)

	result := router.Route(context.Background(), Action{
		Type:    ActionNavigationOpen,
		Payload: map[string]any{"url": "https://example.com/page"},
	})
	if !result.Success {
		t.Fatalf("navigation should succeed, got %+v", result)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "https://example.com/page" {
		t.Fatalf("opened = %v", opener.opened)
	}
}

func TestRouteNavigationMissingURL(t *testing.T) {
	opener := &widgetOpener{}
	router := testRouter(opener, &memorySaver{}, &memoryNotifier{}, nil)

	result := router.Route(context.Background(), Action{Type: ActionNavigationOpen})
	if !result.Success {
		t.Fatalf("missing url must be a silent no-op, got %+v", result)
	}
	if len(opener.opened) != 0 {
		t.Fatalf("no navigation should happen, opened = %v", opener.opened)
	}
}

func TestRouteNavigationClickThroughFallback(t *testing.T) {
	opener := &widgetOpener{fail: true}
	router := testRouter(opener, &memorySaver{}, &memoryNotifier{}, nil)

	result := router.Route(context.Background(), Action{
		Type:    ActionNavigationOpen,
		Payload: map[string]any{"url": "https://example.com/page"},
	})
	if !result.Success {
		t.Fatalf("click-through fallback should succeed, got %+v", result)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "click:https://example.com/page" {
		t.Fatalf("opened = %v", opener.opened)
	}
}

func TestRouteImageDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	saver := &memorySaver{}
	notifier := &memoryNotifier{}
	router := testRouter(&widgetOpener{}, saver, notifier, nil)

	for _, actionType := range []string{ActionImageDownload, ActionImageGenerated} {
		result := router.Route(context.Background(), Action{
			Type:    actionType,
			Payload: map[string]any{"url": srv.URL + "/images/cat.png"},
		})
		if !result.Success {
			t.Fatalf("%s: download should succeed, got %+v", actionType, result)
		}
		if saver.filename != "cat.png" {
			t.Fatalf("%s: filename = %q", actionType, saver.filename)
		}
		if string(saver.data) != "image-bytes" {
			t.Fatalf("%s: saved %q", actionType, saver.data)
		}
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("successful downloads should not notify, got %v", notifier.notices)
	}
}

func TestRouteImageDownloadDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{1})
	}))
	defer srv.Close()

	saver := &memorySaver{}
	router := testRouter(&widgetOpener{}, saver, &memoryNotifier{}, nil)

	result := router.Route(context.Background(), Action{
		Type:    ActionImageGenerated,
		Payload: map[string]any{"url": srv.URL + "/"},
	})
	if !result.Success {
		t.Fatalf("download should succeed, got %+v", result)
	}
	if saver.filename != "generated-image.png" {
		t.Fatalf("filename = %q, want fallback", saver.filename)
	}
}

func TestRouteImageDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	notifier := &memoryNotifier{}
	router := testRouter(&widgetOpener{}, &memorySaver{}, notifier, nil)

	result := router.Route(context.Background(), Action{
		Type:    ActionImageDownload,
		Payload: map[string]any{"url": srv.URL + "/missing.png"},
	})
	if result.Success {
		t.Fatalf("failed fetch must produce a failed result")
	}
	if len(notifier.notices) != 1 || !strings.HasPrefix(notifier.notices[0], "Image download failed") {
		t.Fatalf("notices = %v", notifier.notices)
	}
}

func TestRouteImageDownloadMissingURL(t *testing.T) {
	router := testRouter(&widgetOpener{}, &memorySaver{}, &memoryNotifier{}, nil)
	result := router.Route(context.Background(), Action{Type: ActionImageDownload})
	if result.Success {
		t.Fatalf("missing url must fail")
	}
	if result.Error != gwerrors.ErrMissingURL.Error() {
		t.Fatalf("error = %q", result.Error)
	}
}

func TestRouteImageDownloadSaveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	saver := &memorySaver{err: errors.New("disk full")}
	notifier := &memoryNotifier{}
	router := testRouter(&widgetOpener{}, saver, notifier, nil)

	result := router.Route(context.Background(), Action{
		Type:    ActionImageDownload,
		Payload: map[string]any{"url": srv.URL + "/cat.png"},
	})
	if result.Success {
		t.Fatalf("failed save must produce a failed result")
	}
	if len(notifier.notices) != 1 || !strings.HasPrefix(notifier.notices[0], "Saving image failed") {
		t.Fatalf("notices = %v", notifier.notices)
	}
}

func TestRouteRelayDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/widget-action" {
			t.Errorf("relay path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "refreshed": true}`))
	}))
	defer srv.Close()

	relay := &RelayClient{Endpoint: srv.URL + "/api/widget-action", Client: srv.Client()}
	router := testRouter(&widgetOpener{}, &memorySaver{}, &memoryNotifier{}, relay)

	result := router.Route(context.Background(), Action{
		Type:    "custom.refresh",
		ItemID:  "item-9",
		Payload: map[string]any{"key": "value"},
	})
	if !result.Success {
		t.Fatalf("relay should succeed, got %+v", result)
	}
	if result.Detail["refreshed"] != true {
		t.Fatalf("detail = %v", result.Detail)
	}
}

func TestRouteRelayNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	relay := &RelayClient{Endpoint: srv.URL, Client: srv.Client()}
	router := testRouter(&widgetOpener{}, &memorySaver{}, &memoryNotifier{}, relay)

	result := router.Route(context.Background(), Action{Type: "custom.refresh"})
	if result.Success {
		t.Fatalf("non-2xx relay must fail")
	}
	if result.Error == "" {
		t.Fatalf("failed relay should carry an error message")
	}
}

func TestRouteRelayNotConfigured(t *testing.T) {
	tests := []struct {
		name  string
		relay *RelayClient
	}{
		{"nil relay", nil},
		{"empty endpoint", &RelayClient{Client: http.DefaultClient}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(&widgetOpener{}, &memorySaver{}, &memoryNotifier{}, tc.relay)
			result := router.Route(context.Background(), Action{Type: "custom.refresh"})
			if result.Success {
				t.Fatalf("unconfigured relay must fail")
			}
			if result.Error != "widget action relay not configured" {
				t.Fatalf("error = %q", result.Error)
			}
		})
	}
}

func TestRelayMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	relay := &RelayClient{Endpoint: srv.URL, Client: srv.Client()}
	_, err := relay.Send(context.Background(), Action{Type: "custom.refresh"})
	if !gwerrors.IsRelayError(err) {
		t.Fatalf("want RelayError, got %v", err)
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/images/cat.png", "cat.png"},
		{"https://cdn.example.com/images/", "generated-image.png"},
		{"https://cdn.example.com", "generated-image.png"},
		{"https://cdn.example.com/a/b/c.jpeg?sig=abc", "c.jpeg"},
	}
	for _, tc := range tests {
		if got := filenameFromURL(tc.url); got != tc.want {
			t.Fatalf("filenameFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
