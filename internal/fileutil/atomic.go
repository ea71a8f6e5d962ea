package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Injectable for testing failure paths.
var (
	osRename       = os.Rename
	tempFileWrite  = func(f *os.File, data []byte) (int, error) { return f.Write(data) }
	tempFileClose  = func(f *os.File) error { return f.Close() }
	tempFileSync   = func(f *os.File) error { return f.Sync() }
	createTempFile = os.CreateTemp
)

// WriteAtomic writes data to path through a temporary file in the same
// directory and renames it into place. Either the old content or the
// complete new content is visible, never a partial write.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile, err := createTempFile(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tempFileSync(tempFile); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}

	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set mode: %w", err)
	}

	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename into place: %w", err)
	}

	return nil
}
