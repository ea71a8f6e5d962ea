// Package archive writes and reads the archives a SWORD module is shipped
// in: zip (the SWORD install format) and tar.xz.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Archive formats.
const (
	FormatZip   = "zip"
	FormatTarXZ = "tar.xz"
)

// FormatOf returns the archive format named by the path's extension.
func FormatOf(path string) (string, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(path, ".tar.xz"):
		return FormatTarXZ, nil
	default:
		return "", fmt.Errorf("unsupported archive format: %s", path)
	}
}

// Ext returns the file extension, dot included, for a format.
func Ext(format string) string {
	if format == FormatTarXZ {
		return ".tar.xz"
	}
	return ".zip"
}

// Visitor is called for each archive entry in order. Directory names end
// in "/" and have empty content. Returning stop ends the walk early.
type Visitor func(name string, content io.Reader) (stop bool, err error)

// Iterate walks the entries of the archive at path.
func Iterate(path string, visit Visitor) error {
	entries, err := openEntries(path)
	if err != nil {
		return err
	}
	defer entries.Close()

	for {
		name, r, err := entries.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if stop, err := visit(name, r); err != nil || stop {
			return err
		}
	}
}

// entryReader yields archive entries in order; next returns io.EOF after
// the last one.
type entryReader interface {
	next() (string, io.Reader, error)
	Close() error
}

func openEntries(path string) (entryReader, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatZip {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		return &zipEntries{zr: zr}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	xzr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xz reader: %w", err)
	}
	return &tarEntries{f: f, tr: tar.NewReader(xzr)}, nil
}

type zipEntries struct {
	zr  *zip.ReadCloser
	pos int
	cur io.ReadCloser
}

func (z *zipEntries) next() (string, io.Reader, error) {
	z.closeCurrent()
	if z.pos >= len(z.zr.File) {
		return "", nil, io.EOF
	}
	f := z.zr.File[z.pos]
	z.pos++
	rc, err := f.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	z.cur = rc
	return f.Name, rc, nil
}

func (z *zipEntries) closeCurrent() {
	if z.cur != nil {
		z.cur.Close()
		z.cur = nil
	}
}

func (z *zipEntries) Close() error {
	z.closeCurrent()
	return z.zr.Close()
}

type tarEntries struct {
	f  *os.File
	tr *tar.Reader
}

func (t *tarEntries) next() (string, io.Reader, error) {
	h, err := t.tr.Next()
	if err == io.EOF {
		return "", nil, io.EOF
	}
	if err != nil {
		return "", nil, fmt.Errorf("read header: %w", err)
	}
	return h.Name, t.tr, nil
}

func (t *tarEntries) Close() error { return t.f.Close() }

// List returns the entry names of an archive in order.
func List(path string) ([]string, error) {
	var names []string
	err := Iterate(path, func(name string, _ io.Reader) (bool, error) {
		names = append(names, name)
		return false, nil
	})
	return names, err
}

// ReadFile returns the content of the entry named name.
func ReadFile(archivePath, name string) ([]byte, error) {
	var (
		content []byte
		found   bool
	)
	err := Iterate(archivePath, func(entry string, r io.Reader) (bool, error) {
		if entry != name {
			return false, nil
		}
		found = true
		var err error
		content, err = io.ReadAll(r)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}

// DigestEntries digests every file in the archive, skipping directories.
func DigestEntries(path string) ([]FileDigest, error) {
	var digests []FileDigest
	err := Iterate(path, func(name string, r io.Reader) (bool, error) {
		if strings.HasSuffix(name, "/") {
			return false, nil
		}
		d, err := Digest(r)
		if err != nil {
			return true, fmt.Errorf("read %s: %w", name, err)
		}
		d.Path = name
		digests = append(digests, d)
		return false, nil
	})
	return digests, err
}
