package widget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DirSaver writes downloaded files into a local directory. Embedding
// hosts replace it with the platform save dialog.
type DirSaver struct {
	Dir string
}

func (s DirSaver) SaveFile(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LogNotifier surfaces user-facing notices through the log. Embedding
// hosts replace it with an in-app toast.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(message string) {
	n.Log.Info().Str("notice", message).Msg("User notice")
}
