package widget

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
	"github.com/cekat/assistant-gateway/pkg/nav"
)

// Router classifies widget actions and executes the matching strategy.
type Router struct {
	navigator *nav.Navigator
	saver     FileSaver
	notifier  Notifier
	relay     *RelayClient
	client    *http.Client
	log       zerolog.Logger
}

// NewRouter wires the router's collaborators. httpClient is used for
// resource fetches; nil gets a default with a download timeout.
func NewRouter(navigator *nav.Navigator, saver FileSaver, notifier Notifier, relay *RelayClient, httpClient *http.Client, log zerolog.Logger) *Router {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: downloadTimeout}
	}
	return &Router{
		navigator: navigator,
		saver:     saver,
		notifier:  notifier,
		relay:     relay,
		client:    httpClient,
		log:       log.With().Str("component", "widget").Logger(),
	}
}

// Route dispatches by action type over the closed tag set, with a
// default branch that relays to the backend.
func (r *Router) Route(ctx context.Context, action Action) ActionResult {
	switch action.Type {
	case ActionNavigationOpen:
		return r.routeNavigation(ctx, action)
	case ActionImageDownload, ActionImageGenerated:
		return r.routeImageDownload(ctx, action)
	default:
		return r.routeRelay(ctx, action)
	}
}

func (r *Router) routeNavigation(ctx context.Context, action Action) ActionResult {
	url := action.URL()
	if url == "" {
		// Absent url is a silent no-op: no side effect, no error.
		return okResult(nil)
	}
	if err := r.navigator.OpenFromWidget(ctx, url); err != nil {
		r.log.Warn().Err(err).Str("url", url).Msg("Widget navigation failed")
		return failedResult(err.Error())
	}
	return okResult(map[string]any{"url": url})
}

// routeImageDownload fetches the image and hands it to the local
// save-as-file action. This branch never escalates: a failed fetch
// produces a user-visible notice and a failed result.
func (r *Router) routeImageDownload(ctx context.Context, action Action) ActionResult {
	url := action.URL()
	if url == "" {
		return failedResult(gwerrors.ErrMissingURL.Error())
	}

	data, err := fetchResource(ctx, r.client, url)
	if err != nil {
		r.log.Warn().Err(err).Str("url", url).Msg("Image download failed")
		if r.notifier != nil && gwerrors.IsFetchError(err) {
			r.notifier.Notify(fetchFailureNotice(err))
		}
		return failedResult(err.Error())
	}

	filename := filenameFromURL(url)
	if err := r.saver.SaveFile(ctx, filename, data); err != nil {
		r.log.Warn().Err(err).Str("filename", filename).Msg("Local save failed")
		if r.notifier != nil {
			r.notifier.Notify(saveFailureNotice(err))
		}
		return failedResult(err.Error())
	}
	// data goes out of scope here; no handle outlives the action.
	return okResult(map[string]any{"filename": filename})
}

func (r *Router) routeRelay(ctx context.Context, action Action) ActionResult {
	if r.relay == nil || r.relay.Endpoint == "" {
		r.log.Debug().Str("action_type", action.Type).Msg("Dropping widget action, relay not configured")
		return failedResult("widget action relay not configured")
	}
	result, err := r.relay.Send(ctx, action)
	if err != nil {
		if gwerrors.IsRelayError(err) {
			r.log.Warn().Err(err).Str("action_type", action.Type).Msg("Widget action relay rejected")
		} else {
			r.log.Error().Err(err).Str("action_type", action.Type).Msg("Widget action relay unreachable")
		}
		return failedResult(err.Error())
	}
	return result
}
