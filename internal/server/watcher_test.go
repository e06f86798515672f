package server

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_RescanOnChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.py", "pass\n")

	w, err := NewWatcher(root, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, func() { calls.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	writeFile(t, root, "source/b.py", "pass\n")

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("onChange never fired")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWatcher_SubscriberReceivesEvent(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "source"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	w, err := NewWatcher(root, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ch := w.Subscribe()
	defer w.Unsubscribe(ch)

	writeFile(t, root, "source/new.py", "pass\n")

	select {
	case event := <-ch:
		if event.Path == "" || event.Type == "" {
			t.Errorf("incomplete event: %+v", event)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change event received")
	}
}
