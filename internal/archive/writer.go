package archive

import (
	"archive/tar"
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Injectable functions for testing
var (
	xzNewWriter = xz.NewWriter
	osCreate    = os.Create
)

// Epoch is the modification time stamped on every entry so equal trees give
// byte-identical archives.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// FileDigest records one archived file.
type FileDigest struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// entry is one file or directory of a source tree.
type entry struct {
	name string // slash-separated, relative to the tree root
	path string
	info fs.FileInfo
}

// collect walks the named top-level directories under root in the given
// order, each in lexical order. Missing directories are skipped.
func collect(root string, dirs []string) ([]entry, error) {
	var entries []entry
	for _, dir := range dirs {
		top := filepath.Join(root, dir)
		if _, err := os.Stat(top); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(top, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			entries = append(entries, entry{name: filepath.ToSlash(rel), path: path, info: info})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", top, err)
		}
	}
	return entries, nil
}

// Create packs the directories dirs under root into dstPath and returns the
// digests of the archived files. The format follows the extension: ".zip"
// or ".tar.xz". A failed archive is removed.
func Create(root, dstPath string, dirs []string) ([]FileDigest, error) {
	format, err := FormatOf(dstPath)
	if err != nil {
		return nil, err
	}

	entries, err := collect(root, dirs)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("nothing to archive under %s", root)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}
	out, err := osCreate(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}

	var digests []FileDigest
	switch format {
	case FormatTarXZ:
		digests, err = writeTarXZ(out, entries)
	default:
		digests, err = writeZip(out, entries)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close archive: %w", cerr)
	}
	if err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	return digests, nil
}

func writeZip(w io.Writer, entries []entry) ([]FileDigest, error) {
	var digests []FileDigest
	zw := zip.NewWriter(w)
	for _, e := range entries {
		header, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return nil, err
		}
		header.Name = e.name
		header.Modified = Epoch
		if e.info.IsDir() {
			header.Name += "/"
			header.Method = zip.Store
		} else {
			header.Method = zip.Deflate
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return nil, err
		}
		if e.info.IsDir() {
			continue
		}
		d, err := copyEntry(fw, e)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, zw.Close()
}

func writeTarXZ(w io.Writer, entries []entry) ([]FileDigest, error) {
	xw, err := xzNewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	var digests []FileDigest
	for _, e := range entries {
		header, err := tar.FileInfoHeader(e.info, "")
		if err != nil {
			return nil, err
		}
		header.Name = e.name
		if e.info.IsDir() {
			header.Name += "/"
		}
		// Normalize ownership and timestamps for reproducibility
		header.ModTime = Epoch
		header.AccessTime, header.ChangeTime = time.Time{}, time.Time{}
		header.Uid, header.Gid = 0, 0
		header.Uname, header.Gname = "", ""

		if err := tw.WriteHeader(header); err != nil {
			return nil, err
		}
		if e.info.IsDir() {
			continue
		}
		d, err := copyEntry(tw, e)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return digests, xw.Close()
}

// copyEntry streams a file into the archive while hashing it.
func copyEntry(w io.Writer, e entry) (FileDigest, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return FileDigest{}, err
	}
	defer f.Close()

	d, err := Digest(io.TeeReader(f, w))
	if err != nil {
		return FileDigest{}, fmt.Errorf("failed to add %s: %w", e.name, err)
	}
	d.Path = e.name
	return d, nil
}

// Digest reads r to the end and returns its size with SHA-256 and BLAKE3
// digests.
func Digest(r io.Reader) (FileDigest, error) {
	sh := sha256.New()
	bh := blake3.New()
	n, err := io.Copy(io.MultiWriter(sh, bh), r)
	if err != nil {
		return FileDigest{}, err
	}
	return FileDigest{
		Size:   n,
		SHA256: hex.EncodeToString(sh.Sum(nil)),
		BLAKE3: hex.EncodeToString(bh.Sum(nil)),
	}, nil
}

// DigestFile digests the file at path.
func DigestFile(path string) (FileDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileDigest{}, err
	}
	defer f.Close()

	d, err := Digest(f)
	if err != nil {
		return FileDigest{}, err
	}
	d.Path = filepath.Base(path)
	return d, nil
}
