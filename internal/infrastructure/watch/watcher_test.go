package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIgnored(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/project/src/app.ts", false},
		{"/project/.git/HEAD", true},
		{"/project/node_modules/dep/index.js", true},
		{"/project/.specforge/meta.json", true},
		{"/project/dist/bundle.js", true},
		{"/project/src/.hidden.ts", true},
	}
	for _, tt := range tests {
		if got := ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSourceWatcher_SettleCallback(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	settled := make(chan []string, 1)
	w, err := NewSourceWatcher(50*time.Millisecond, func(changed []string) {
		select {
		case settled <- changed:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewSourceWatcher failed: %v", err)
	}
	if err := w.WatchRecursive(root); err != nil {
		t.Fatalf("WatchRecursive failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// A burst of writes settles into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(root, "src", "app.ts"), []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-settled:
		if len(changed) == 0 {
			t.Error("Settle callback should report the changed paths")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Settle callback never fired")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run should return the context error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}

// A sustained burst with a window shorter than the event spacing makes
// settle fires overlap fresh events. Run with -race.
func TestSourceWatcher_SustainedBurst(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	var settles atomic.Int32
	w, err := NewSourceWatcher(time.Millisecond, func(changed []string) {
		settles.Add(1)
	})
	if err != nil {
		t.Fatalf("NewSourceWatcher failed: %v", err)
	}
	if err := w.WatchRecursive(root); err != nil {
		t.Fatalf("WatchRecursive failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 200; i++ {
		name := filepath.Join(root, "src", fmt.Sprintf("f%d.ts", i%8))
		if err := os.WriteFile(name, []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	time.Sleep(100 * time.Millisecond)
	if settles.Load() == 0 {
		t.Error("burst should have produced at least one settle")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run should return the context error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}
