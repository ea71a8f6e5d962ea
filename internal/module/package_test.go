package module

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/sid/internal/archive"
	"github.com/FocuswithJustin/sid/internal/config"
)

// writeTree creates an install tree with one file in each directory plus a
// working file that must stay out of the archive.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"modules/texts/ztext/kjv/ot.bzz": "compressed",
		"mods.d/KJV.conf":                "[KJV]\n",
		"xml/KJV.xml":                    "<osis/>",
		"KJV.osis.xml":                   "<osis/>",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

var wantEntries = []string{
	"modules/",
	"modules/texts/",
	"modules/texts/ztext/",
	"modules/texts/ztext/kjv/",
	"modules/texts/ztext/kjv/ot.bzz",
	"mods.d/",
	"mods.d/KJV.conf",
	"xml/",
	"xml/KJV.xml",
}

func checkManifest(t *testing.T, m *Manifest, dest string) {
	t.Helper()
	if len(m.Files) != 3 {
		t.Fatalf("manifest has %d files, want 3: %+v", len(m.Files), m.Files)
	}
	conf := m.Files[1]
	sum := sha256.Sum256([]byte("[KJV]\n"))
	if conf.Path != "mods.d/KJV.conf" || conf.Size != 6 || conf.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("conf digest = %+v", conf)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	archiveSum := sha256.Sum256(data)
	if m.SHA256 != hex.EncodeToString(archiveSum[:]) {
		t.Error("manifest SHA256 does not match the archive")
	}
	if m.Module != "KJV" || m.Archive != filepath.Base(dest) {
		t.Errorf("manifest header = %+v", m)
	}
}

func TestPackage(t *testing.T) {
	tests := []struct {
		format string
		file   string
	}{
		{config.ArchiveZip, "KJV.zip"},
		{config.ArchiveTarXZ, "KJV.tar.xz"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			root := writeTree(t)
			dest := filepath.Join(t.TempDir(), "out", tt.file)

			m, err := Package(root, dest, tt.format, "KJV")
			if err != nil {
				t.Fatalf("Package failed: %v", err)
			}
			checkManifest(t, m, dest)
			if m.Format != tt.format {
				t.Errorf("Format = %q", m.Format)
			}

			names, err := archive.List(dest)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if strings.Join(names, ",") != strings.Join(wantEntries, ",") {
				t.Errorf("entries = %v\nwant %v", names, wantEntries)
			}
			if err := Verify(dest, m); err != nil {
				t.Errorf("Verify failed: %v", err)
			}
		})
	}
}

func TestPackageErrors(t *testing.T) {
	if _, err := Package(t.TempDir(), filepath.Join(t.TempDir(), "x.zip"), config.ArchiveZip, "KJV"); err == nil {
		t.Error("Package should fail on an empty tree")
	}

	root := writeTree(t)
	if _, err := Package(root, filepath.Join(t.TempDir(), "x.rar"), "rar", "KJV"); err == nil {
		t.Error("Package should fail for an unknown format")
	}
	if _, err := Package(root, filepath.Join(t.TempDir(), "x.zip"), config.ArchiveTarXZ, "KJV"); err == nil {
		t.Error("Package should fail when the file name and format disagree")
	}
}

func TestManifestRoundTripAndVerify(t *testing.T) {
	root := writeTree(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "KJV.zip")

	m, err := Package(root, dest, config.ArchiveZip, "KJV")
	if err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "KJV.manifest.json")
	if err := writeManifest(manifestPath, m); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadManifest(manifestPath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if err := Verify(dest, loaded); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	tampered := *loaded
	tampered.Files = append([]archive.FileDigest(nil), loaded.Files...)
	tampered.Files[0].SHA256 = strings.Repeat("0", 64)
	if err := Verify(dest, &tampered); err == nil || !strings.Contains(err.Error(), "modified file") {
		t.Errorf("Verify = %v, want modified file", err)
	}

	tampered.Files = append(loaded.Files[:0:0], loaded.Files...)
	tampered.Files = append(tampered.Files, archive.FileDigest{Path: "mods.d/extra.conf"})
	if err := Verify(dest, &tampered); err == nil || !strings.Contains(err.Error(), "missing file") {
		t.Errorf("Verify = %v, want missing file", err)
	}

	tampered.Files = loaded.Files[1:]
	if err := Verify(dest, &tampered); err == nil || !strings.Contains(err.Error(), "unlisted file") {
		t.Errorf("Verify = %v, want unlisted file", err)
	}

	other := *loaded
	other.SHA256 = "bad"
	if err := Verify(dest, &other); err == nil || !strings.Contains(err.Error(), "digest mismatch") {
		t.Errorf("Verify = %v, want digest mismatch", err)
	}

	if err := os.WriteFile(manifestPath, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadManifest(manifestPath); err == nil {
		t.Error("ReadManifest should reject malformed JSON")
	}
}
