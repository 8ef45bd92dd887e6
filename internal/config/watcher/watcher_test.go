package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// run starts w and returns a channel receiving every delivered event.
func run(t *testing.T, w *Watcher) <-chan Event {
	t.Helper()
	events := make(chan Event, 16)
	w.OnChange(func(event Event) {
		select {
		case events <- event:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	return events
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive file change event")
	}
	return Event{}
}

func TestNew_WithOptions(t *testing.T) {
	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", w.debounce)
	}

	w = newWatcher(t)
	if w.debounce != 100*time.Millisecond {
		t.Errorf("default debounce = %v, want 100ms", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "a.ini")
	if err := os.WriteFile(existing, []byte("[setup]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(tmpDir, "b.ini")

	w := newWatcher(t)
	if err := w.Watch(existing); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(missing); err != nil {
		t.Fatalf("Watch() for missing file error = %v", err)
	}
	if err := w.Watch(existing); err != nil {
		t.Errorf("second Watch() error = %v", err)
	}

	if files := w.WatchedFiles(); len(files) != 2 || files[0] != existing {
		t.Errorf("WatchedFiles() = %v", files)
	}
	if w.dirs[tmpDir] != 2 {
		t.Errorf("directory count = %d, want 2", w.dirs[tmpDir])
	}

	_ = w.Unwatch(existing)
	_ = w.Unwatch(missing)
	if files := w.WatchedFiles(); len(files) != 0 {
		t.Errorf("WatchedFiles() = %v, want none", files)
	}
	if _, ok := w.dirs[tmpDir]; ok {
		t.Error("directory should no longer be watched")
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "a.ini")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_WatchAfterClose(t *testing.T) {
	w := newWatcher(t)
	_ = w.Close()
	if err := w.Watch(filepath.Join(t.TempDir(), "a.ini")); !errors.Is(err, ErrClosed) {
		t.Errorf("Watch() after Close = %v, want ErrClosed", err)
	}
}

func TestWatcher_DetectsFileModification(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "meta.ini")
	if err := os.WriteFile(tmpFile, []byte("[setup]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(0))
	if err := w.Watch(tmpFile); err != nil {
		t.Fatal(err)
	}
	events := run(t, w)

	// an unrelated file in the same directory is ignored
	if err := os.WriteFile(filepath.Join(tmpDir, "other.ini"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tmpFile, []byte("[setup]\nmedium = water\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, events)
	if ev.Path != tmpFile {
		t.Errorf("event.Path = %q, want %q", ev.Path, tmpFile)
	}
	if ev.Op != OpWrite {
		t.Errorf("event.Op = %v, want write", ev.Op)
	}
}

func TestWatcher_DetectsFileCreation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "new.ini")

	w := newWatcher(t, WithDebounce(0))
	if err := w.Watch(tmpFile); err != nil {
		t.Fatal(err)
	}
	events := run(t, w)

	if err := os.WriteFile(tmpFile, []byte("[user]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if ev := waitEvent(t, events); ev.Op != OpCreate {
		t.Errorf("event.Op = %v, want create", ev.Op)
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "meta.ini")

	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	if err := w.Watch(tmpFile); err != nil {
		t.Fatal(err)
	}
	events := run(t, w)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(tmpFile, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if ev := waitEvent(t, events); ev.Op != OpCreate {
		t.Errorf("event.Op = %v, want create", ev.Op)
	}
	select {
	case ev := <-events:
		t.Errorf("unexpected second event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_QueueEvent(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Second))
	t0 := time.Now()

	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{"create then write", []Operation{OpCreate, OpWrite}, OpCreate},
		{"write then write", []Operation{OpWrite, OpWrite}, OpWrite},
		{"write then remove", []Operation{OpWrite, OpRemove}, OpRemove},
		{"remove then create", []Operation{OpRemove, OpCreate}, OpCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, op := range tt.ops {
				w.queueEvent(Event{Path: tt.name, Op: op, Time: t0.Add(time.Duration(i))})
			}
			if got := w.pending[tt.name].Op; got != tt.want {
				t.Errorf("pending op = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatcher_ProcessPendingEvents(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Second))
	var got []Event
	w.OnChange(func(event Event) { got = append(got, event) })
	w.OnChange(func(Event) { panic("handler failure") })

	now := time.Now()
	w.queueEvent(Event{Path: "/b", Op: OpWrite, Time: now.Add(-2 * time.Second)})
	w.queueEvent(Event{Path: "/a", Op: OpCreate, Time: now.Add(-3 * time.Second)})
	w.queueEvent(Event{Path: "/c", Op: OpWrite, Time: now})

	w.processPendingEvents(now)

	if len(got) != 2 || got[0].Path != "/a" || got[1].Path != "/b" {
		t.Errorf("emitted = %+v", got)
	}
	if _, ok := w.pending["/c"]; !ok {
		t.Error("recent event should stay pending")
	}
}

func TestWatcher_RunStopsOnClose(t *testing.T) {
	w := newWatcher(t)
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	_ = w.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
