package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow is how long the watcher waits after the last pending-dir
// event before firing a run. Fetchers drop several files in a burst; one
// run should consume the whole batch.
const debounceWindow = 500 * time.Millisecond

// Watch starts an fsnotify watcher on the pending directory and calls
// trigger after each settled burst of drops, until ctx is cancelled.
// The pending directory is created if missing so the watch can start
// before the first fetcher run.
func Watch(ctx context.Context, dataDir string, logger *slog.Logger, trigger func()) error {
	pending := filepath.Join(dataDir, PendingDir)
	if err := os.MkdirAll(pending, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(pending); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", pending))

	// debounceTimer collapses a burst of drop events into one run.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(debounceWindow)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			trigger()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Only react to drops landing as .json. A move into the dir
			// fires Create; in-place writers fire Write. Rename/Remove on
			// the old path is our own MarkProcessed relocation, which must
			// not re-trigger a run.
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			logger.Debug("watcher: drop observed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
