package watch

import (
	"context"
	"os"
	"testing"
	"time"
)

type fakeFileInfo struct {
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return "" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

// fakeFS lets a test drive mtimes and file existence deterministically,
// without touching the real filesystem or real time.
type fakeFS struct {
	mtimes map[string]time.Time
	gone   map[string]bool
	paths  []string
}

func newFakeFS(paths []string, at time.Time) *fakeFS {
	f := &fakeFS{mtimes: make(map[string]time.Time), gone: make(map[string]bool), paths: paths}
	for _, p := range paths {
		f.mtimes[p] = at
	}
	return f
}

func (f *fakeFS) list() ([]string, error) {
	var out []string
	for _, p := range f.paths {
		if !f.gone[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeFS) stat(p string) (os.FileInfo, error) {
	if f.gone[p] {
		return nil, os.ErrNotExist
	}
	t, ok := f.mtimes[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return fakeFileInfo{modTime: t}, nil
}

func (f *fakeFS) touch(p string, at time.Time) {
	f.mtimes[p] = at
}

func (f *fakeFS) remove(p string) {
	f.gone[p] = true
}

func TestWatcherDetectsModificationAfterDebounce(t *testing.T) {
	start := time.Now()
	fs := newFakeFS([]string{"a.md"}, start)
	w := New("", fs.list, fs.stat, 5*time.Millisecond, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	time.Sleep(15 * time.Millisecond)
	fs.touch("a.md", start.Add(time.Second))

	select {
	case ch := <-w.Changes:
		if ch.Kind != ChangeModified || ch.Path != "a.md" {
			t.Fatalf("unexpected change: %+v", ch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a modified change")
	}
}

func TestWatcherDetectsRemoval(t *testing.T) {
	start := time.Now()
	fs := newFakeFS([]string{"a.md"}, start)
	w := New("", fs.list, fs.stat, 5*time.Millisecond, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	time.Sleep(15 * time.Millisecond)
	fs.remove("a.md")

	select {
	case ch := <-w.Changes:
		if ch.Kind != ChangeRemoved || ch.Path != "a.md" {
			t.Fatalf("unexpected change: %+v", ch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a removed change")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	fs := newFakeFS(nil, time.Now())
	w := New("", fs.list, fs.stat, 5*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if _, ok := <-w.Changes; ok {
		t.Fatal("expected Changes to be closed")
	}
}
