package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kjv.json")
	writeFile(t, path, "[]")

	w, err := New(path, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
	if w.changed() {
		t.Error("unchanged content should not count as a change")
	}
	writeFile(t, path, `[{"book": "Genesis"}]`)
	if !w.changed() {
		t.Error("new content should count as a change")
	}
	if w.changed() {
		t.Error("a change is reported once")
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if w.changed() {
		t.Error("a missing file should not count as a change")
	}
}

func TestRunCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kjv.json")
	writeFile(t, path, "[]")

	w, err := New(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("rebuild failed")
		})
	}()

	// Other files in the directory are ignored.
	writeFile(t, filepath.Join(dir, "other.json"), "x")
	writeFile(t, path, `[{"book": "Genesis"}]`)

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "kjv.json"), 0); err == nil {
		t.Error("New should fail when the directory does not exist")
	}
}
