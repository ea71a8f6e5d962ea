package module

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/sid/internal/archive"
)

// installDirs are the top-level directories of a SWORD install tree, in
// archive order.
var installDirs = []string{"modules", "mods.d", "xml"}

// Manifest lists the contents of a packaged module.
type Manifest struct {
	Module  string               `json:"module"`
	Archive string               `json:"archive"`
	Format  string               `json:"format"`
	Source  string               `json:"source_sha256,omitempty"` // corpus hash, set by Build
	SHA256  string               `json:"sha256"`
	BLAKE3  string               `json:"blake3"`
	Files   []archive.FileDigest `json:"files"`
}

// Package packs the install tree under root into dest, as a zip archive
// (the SWORD install format) or a tar.xz archive, and returns the manifest.
func Package(root, dest, format, module string) (*Manifest, error) {
	switch format {
	case archive.FormatZip, archive.FormatTarXZ:
	default:
		return nil, fmt.Errorf("unknown archive format %q", format)
	}
	if got, err := archive.FormatOf(dest); err != nil || got != format {
		return nil, fmt.Errorf("archive %s does not match format %q", filepath.Base(dest), format)
	}

	files, err := archive.Create(root, dest, installDirs)
	if err != nil {
		return nil, err
	}

	sum, err := archive.DigestFile(dest)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Module:  module,
		Archive: filepath.Base(dest),
		Format:  format,
		SHA256:  sum.SHA256,
		BLAKE3:  sum.BLAKE3,
		Files:   files,
	}, nil
}

// ReadManifest loads a manifest written by a build.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Verify checks an archive against its manifest: the whole-archive digests
// and every listed file must match, and the archive may hold no other files.
func Verify(archivePath string, m *Manifest) error {
	sum, err := archive.DigestFile(archivePath)
	if err != nil {
		return fmt.Errorf("failed to digest archive: %w", err)
	}
	if sum.SHA256 != m.SHA256 || sum.BLAKE3 != m.BLAKE3 {
		return fmt.Errorf("archive %s digest mismatch", filepath.Base(archivePath))
	}

	files, err := archive.DigestEntries(archivePath)
	if err != nil {
		return err
	}
	want := make(map[string]archive.FileDigest, len(m.Files))
	for _, f := range m.Files {
		want[f.Path] = f
	}
	var problems []string
	for _, f := range files {
		w, ok := want[f.Path]
		switch {
		case !ok:
			problems = append(problems, "unlisted file "+f.Path)
		case w != f:
			problems = append(problems, "modified file "+f.Path)
		}
		delete(want, f.Path)
	}
	for _, f := range m.Files {
		if _, missing := want[f.Path]; missing {
			problems = append(problems, "missing file "+f.Path)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("archive %s failed verification: %v", filepath.Base(archivePath), problems)
	}
	return nil
}
