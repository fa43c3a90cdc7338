// Package watch polls a project's Markdown sources and target files for
// changes and drives a sync on every settled change. It deliberately uses
// a time.Ticker mtime poll rather than inotify/fsevents: one code path,
// reliable under network filesystems, at the cost of latency bounded by
// the poll interval.
package watch

import (
	"context"
	"os"
	"time"
)

// ChangeKind describes what kind of change a poll tick detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeRemoved
	ChangeAdded
)

// Change reports one file's settled state transition.
type Change struct {
	Kind ChangeKind
	Path string
}

// Lister returns the current set of paths the caller cares about, each
// passed to Stat as given (the watched root is not joined in) — the engine's discovered Markdown sources plus
// every tangle target, so edits on either side of the tangle/stitch
// boundary are picked up.
type Lister func() ([]string, error)

// StatFunc abstracts os.Stat for testing without touching the filesystem.
type StatFunc func(path string) (os.FileInfo, error)

// Watcher polls Lister()'s paths on an interval and reports settled
// changes (no further mtime change for at least debounce) on Changes.
type Watcher struct {
	root     string
	list     Lister
	stat     StatFunc
	interval time.Duration
	debounce time.Duration

	Changes chan Change

	known    map[string]time.Time // last reported mtime per listed path
	observed map[string]time.Time // mtime seen on the latest poll
}

// New builds a Watcher. interval is how often Lister/Stat are polled;
// debounce is how long a path's mtime must stay unchanged before its
// change is reported.
func New(root string, list Lister, stat StatFunc, interval, debounce time.Duration) *Watcher {
	if stat == nil {
		stat = os.Stat
	}
	return &Watcher{
		root:     root,
		list:     list,
		stat:     stat,
		interval: interval,
		debounce: debounce,
		Changes:  make(chan Change, 16),
		known:    make(map[string]time.Time),
		observed: make(map[string]time.Time),
	}
}

// Run polls until ctx is cancelled, closing Changes on return. Run performs
// an initial seed pass (recording current mtimes without emitting changes)
// before its first poll, so a fresh Watcher doesn't report every tracked
// file as "added" on its very first tick.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.Changes)

	if err := w.seed(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.poll(pending); err != nil {
				return err
			}
			w.flush(pending)
		}
	}
}

func (w *Watcher) seed() error {
	paths, err := w.list()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if info, err := w.stat(p); err == nil {
			w.known[p] = info.ModTime()
		}
	}
	return nil
}

// poll records a new pending-change timestamp for every path whose mtime
// moved (or that appeared/disappeared) since the last known state.
func (w *Watcher) poll(pending map[string]time.Time) error {
	paths, err := w.list()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
		info, err := w.stat(p)
		if err != nil {
			delete(w.observed, p)
			if _, tracked := w.known[p]; tracked {
				if _, waiting := pending[p]; !waiting {
					pending[p] = time.Now()
				}
			}
			continue
		}
		mt := info.ModTime()
		prev, polled := w.observed[p]
		w.observed[p] = mt
		last, tracked := w.known[p]
		if !tracked || !mt.Equal(last) {
			// Restart the debounce window only when the mtime moved again.
			if _, waiting := pending[p]; !waiting || !polled || !mt.Equal(prev) {
				pending[p] = time.Now()
			}
		}
	}

	for p := range w.known {
		if !seen[p] {
			if _, waiting := pending[p]; !waiting {
				pending[p] = time.Now()
			}
		}
	}
	return nil
}

// flush emits and clears every pending change whose debounce window has
// elapsed, refreshing w.known for the ones it emits.
func (w *Watcher) flush(pending map[string]time.Time) {
	now := time.Now()
	for p, t := range pending {
		if now.Sub(t) < w.debounce {
			continue
		}
		delete(pending, p)

		info, err := w.stat(p)
		_, wasKnown := w.known[p]
		switch {
		case err != nil:
			delete(w.known, p)
			if wasKnown {
				w.Changes <- Change{Kind: ChangeRemoved, Path: p}
			}
		case !wasKnown:
			w.known[p] = info.ModTime()
			w.Changes <- Change{Kind: ChangeAdded, Path: p}
		default:
			w.known[p] = info.ModTime()
			w.Changes <- Change{Kind: ChangeModified, Path: p}
		}
	}
}
