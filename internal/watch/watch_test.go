package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcherTriggersOnExportWrite(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	w := New(dir, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "events-timeline.csv")
	if err := os.WriteFile(path, []byte("Event Name\nTest\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire after export write")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("unexpected run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherDebouncesBatchWrites(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 16)
	w := New(dir, func(context.Context) {
		fired <- struct{}{}
	}, WithDebounce(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	// A refresh batch rewrites several exports in quick succession.
	for _, name := range []string{"events-timeline.csv", "people.csv", "refresh-metadata.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire after batch")
	}

	// The batch should have settled into a single callback.
	select {
	case <-fired:
		t.Error("expected one callback for the batch, got more")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"csv write", fsnotify.Event{Name: "data/events-timeline.csv", Op: fsnotify.Write}, true},
		{"json create", fsnotify.Event{Name: "data/refresh-metadata.json", Op: fsnotify.Create}, true},
		{"csv rename", fsnotify.Event{Name: "data/people.CSV", Op: fsnotify.Rename}, true},
		{"tmp file", fsnotify.Event{Name: "data/events.csv.tmp-123", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "data/events-timeline.csv", Op: fsnotify.Chmod}, false},
		{"unrelated ext", fsnotify.Event{Name: "data/notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
