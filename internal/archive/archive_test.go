package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{
		"a/one.txt":     "one",
		"a/sub/two.txt": "two",
		"b/three.txt":   "three",
		"skip/four.txt": "four",
	} {
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

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"KJV.zip", FormatZip, false},
		{"out/KJV.tar.xz", FormatTarXZ, false},
		{"KJV.tar.gz", "", true},
		{"KJV", "", true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
	if Ext(FormatTarXZ) != ".tar.xz" || Ext(FormatZip) != ".zip" {
		t.Error("Ext mismatch")
	}
}

func TestCreateAndRead(t *testing.T) {
	want := []string{"a/", "a/one.txt", "a/sub/", "a/sub/two.txt", "b/", "b/three.txt"}

	for _, name := range []string{"t.zip", "t.tar.xz"} {
		t.Run(name, func(t *testing.T) {
			root := writeTree(t)
			dest := filepath.Join(t.TempDir(), name)

			digests, err := Create(root, dest, []string{"a", "b", "missing"})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if len(digests) != 3 || digests[2].Path != "b/three.txt" || digests[2].Size != 5 {
				t.Errorf("digests = %+v", digests)
			}

			names, err := List(dest)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if strings.Join(names, ",") != strings.Join(want, ",") {
				t.Errorf("entries = %v, want %v", names, want)
			}

			data, err := ReadFile(dest, "a/sub/two.txt")
			if err != nil || string(data) != "two" {
				t.Errorf("ReadFile = %q, %v", data, err)
			}
			if _, err := ReadFile(dest, "skip/four.txt"); err == nil {
				t.Error("ReadFile should fail for an entry outside the archived dirs")
			}

			read, err := DigestEntries(dest)
			if err != nil {
				t.Fatalf("DigestEntries failed: %v", err)
			}
			for i := range read {
				if read[i] != digests[i] {
					t.Errorf("entry %d digest = %+v, want %+v", i, read[i], digests[i])
				}
			}
		})
	}
}

func TestCreateDeterministic(t *testing.T) {
	root := writeTree(t)
	dir := t.TempDir()
	for _, ext := range []string{".zip", ".tar.xz"} {
		a, b := filepath.Join(dir, "a"+ext), filepath.Join(dir, "b"+ext)
		if _, err := Create(root, a, []string{"a", "b"}); err != nil {
			t.Fatal(err)
		}
		if _, err := Create(root, b, []string{"a", "b"}); err != nil {
			t.Fatal(err)
		}
		da, _ := DigestFile(a)
		db, _ := DigestFile(b)
		if da.SHA256 != db.SHA256 || da.BLAKE3 != db.BLAKE3 {
			t.Errorf("%s archives of the same tree differ", ext)
		}
	}
}

func TestDigest(t *testing.T) {
	d, err := Digest(strings.NewReader("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Size != 3 || d.SHA256 != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Digest = %+v", d)
	}
	if d.BLAKE3 != "6437b3ac38465133ffb63b75273a8db548c558465d79db03fd359c6cd5bd9d85" {
		t.Errorf("BLAKE3 = %s", d.BLAKE3)
	}
}

func TestCreateErrors(t *testing.T) {
	root := writeTree(t)

	if _, err := Create(root, filepath.Join(t.TempDir(), "x.rar"), []string{"a"}); err == nil {
		t.Error("Create should fail for an unknown format")
	}
	if _, err := Create(root, filepath.Join(t.TempDir(), "x.zip"), []string{"missing"}); err == nil {
		t.Error("Create should fail with nothing to archive")
	}

	orig := xzNewWriter
	defer func() { xzNewWriter = orig }()
	xzNewWriter = func(io.Writer) (*xz.Writer, error) { return nil, errors.New("xz unavailable") }
	dest := filepath.Join(t.TempDir(), "x.tar.xz")
	if _, err := Create(root, dest, []string{"a"}); err == nil {
		t.Error("Create should surface xz writer errors")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("a failed archive should be removed")
	}

	origCreate := osCreate
	defer func() { osCreate = origCreate }()
	osCreate = func(string) (*os.File, error) { return nil, errors.New("disk full") }
	if _, err := Create(root, filepath.Join(t.TempDir(), "x.zip"), []string{"a"}); err == nil {
		t.Error("Create should surface create errors")
	}
}

func TestIterateErrors(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Error("List should fail for a missing archive")
	}
	bad := filepath.Join(t.TempDir(), "bad.tar.xz")
	if err := os.WriteFile(bad, []byte("not xz"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := List(bad); err == nil {
		t.Error("List should fail for a corrupt archive")
	}
}
