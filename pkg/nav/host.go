package nav

import (
	"context"

	"github.com/rs/zerolog"
)

// LogOpener is the headless Opener: it records navigation intents in
// the log. Embedding hosts replace it with a real browser bridge.
type LogOpener struct {
	Log zerolog.Logger
}

func (o LogOpener) OpenNewTab(_ context.Context, url string) error {
	o.Log.Info().Str("url", url).Msg("Navigation requested (new tab)")
	return nil
}

func (o LogOpener) Navigate(_ context.Context, url string) error {
	o.Log.Info().Str("url", url).Msg("Navigation requested (current view)")
	return nil
}

func (o LogOpener) ClickThrough(_ context.Context, url string) error {
	o.Log.Info().Str("url", url).Msg("Navigation requested (click-through)")
	return nil
}
