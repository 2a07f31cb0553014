package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	var imported []string
	var mu sync.Mutex
	onFile := func(path string) {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
	}
	w := NewWatcher([]string{dir}, []string{".txt"}, onFile, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	txtPath := filepath.Join(sub, "resume.txt")
	if err := os.WriteFile(txtPath, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	pngPath := filepath.Join(sub, "photo.png")
	if err := os.WriteFile(pngPath, []byte{0x89}, 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		done := containsPath(imported, txtPath)
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for debounced import")
		}
		time.Sleep(50 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if containsPath(imported, pngPath) {
		t.Error("expected .png filtered by extension")
	}
}

func TestWatcher_ImportsExistingFilesOnStart(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	if err := os.WriteFile(existing, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}

	var imported []string
	var mu sync.Mutex
	w := NewWatcher([]string{dir}, []string{".txt"}, func(path string) {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	mu.Lock()
	defer mu.Unlock()
	if !containsPath(imported, existing) {
		t.Errorf("expected existing file imported on start, got %v", imported)
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "intake")

	w := NewWatcher([]string{root}, nil, func(string) {}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("expected root created: %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher([]string{t.TempDir()}, nil, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestMatchExtension(t *testing.T) {
	if !matchExtension("/a/b.PDF", []string{".pdf"}) {
		t.Error("expected case-insensitive match")
	}
	if !matchExtension("/a/b.txt", []string{"txt"}) {
		t.Error("expected match without leading dot")
	}
	if matchExtension("/a/b.png", []string{".pdf", ".txt"}) {
		t.Error("expected no match")
	}
	if !matchExtension("/a/anything.xyz", nil) {
		t.Error("expected empty filter to match all")
	}
}

func containsPath(paths []string, want string) bool {
	for _, p := range paths {
		if strings.EqualFold(filepath.Clean(p), filepath.Clean(want)) {
			return true
		}
	}
	return false
}
