package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	if err == nil {
		t.Fatal("want error for empty roots")
	}
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "existing.pdf", "already here")
	writeFile(t, dir, "notes.txt", "wrong extension")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
	})
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	select {
	case p := <-events:
		if filepath.Base(p) != "existing.pdf" {
			t.Fatalf("got %q, want existing.pdf", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

// A burst of drops under a short debounce must not crash the event loop; the
// pending set is flushed only from the loop goroutine.
func TestWatcherDebouncedBurst(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{dir},
		Debounce: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	const n = 200
	go func() {
		for i := 0; i < n; i++ {
			path := filepath.Join(dir, fmt.Sprintf("factura-%03d.pdf", i))
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Errorf("write %s: %v", path, err)
				return
			}
		}
	}()

	got := make(map[string]struct{})
	deadline := time.After(10 * time.Second)
	for len(got) < n {
		select {
		case p := <-events:
			got[p] = struct{}{}
		case <-deadline:
			t.Fatalf("received %d/%d files before deadline", len(got), n)
		}
	}
}
