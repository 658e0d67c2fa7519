// Package watch re-runs an action whenever a theme file changes on disk.
// It polls modification times rather than using OS file events: theme
// files are single small files and polling survives editors that replace
// the file on save.
package watch

import (
	"context"
	"os"
	"time"

	"github.com/tliron/commonlog"
)

// Watcher polls one file and invokes OnChange after its modification time
// or size changes. Changes arriving while a debounce window is open are
// coalesced into a single invocation. A failing OnChange is logged and
// the loop keeps running.
type Watcher struct {
	Path     string
	Interval time.Duration
	Debounce time.Duration
	OnChange func() error

	log commonlog.Logger
}

const (
	defaultInterval = 250 * time.Millisecond
	defaultDebounce = 500 * time.Millisecond
)

// Run polls until the context is cancelled. The initial state of the file
// is taken as the baseline; Run does not fire for it.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = defaultInterval
	}
	if w.Debounce <= 0 {
		w.Debounce = defaultDebounce
	}
	w.log = commonlog.GetLogger("watch")

	last, _ := stamp(w.Path)
	var pending bool
	var quietSince time.Time

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := stamp(w.Path)
		if err != nil {
			// The file may be mid-replace; treat as no change.
			continue
		}

		if current != last {
			last = current
			pending = true
			quietSince = time.Now()
			continue
		}

		if pending && time.Since(quietSince) >= w.Debounce {
			pending = false
			w.log.Infof("change detected: %s", w.Path)
			if err := w.OnChange(); err != nil {
				w.log.Errorf("%s", err.Error())
			}
		}
	}
}

// fileStamp is the comparable identity of a file's current content.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stamp(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}
