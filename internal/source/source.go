// Package source loads chapter documents from the inputs sid accepts: the
// JSON document contract and SQLite bible databases.
package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
)

// Format identifies a source file format.
type Format string

// Supported formats.
const (
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// extensions maps lower-case file extensions onto formats.
var extensions = map[string]Format{
	".json":    FormatJSON,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
}

// sqliteMagic opens every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat picks the format from the file extension, falling back to
// the file's leading bytes when the extension is not recognised.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if f, ok := sniffFormat(path); ok {
		return f, nil
	}
	return "", errors.NewUnsupported("source format", "unrecognised extension "+quoteExt(ext))
}

// sniffFormat reads the first bytes of path: the SQLite header, or a JSON
// object or array after optional whitespace.
func sniffFormat(path string) (Format, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", false
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, sqliteMagic) {
		return FormatSQLite, true
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON, true
	}
	return "", false
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return `"` + ext + `"`
}

// Load reads the corpus at path. The work ID defaults to the file name
// without its extension.
func Load(ctx context.Context, path string) (*ir.Corpus, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var corpus *ir.Corpus
	switch format {
	case FormatSQLite:
		corpus, err = LoadSQLite(ctx, path)
	default:
		corpus, err = LoadJSON(path)
	}
	if err != nil {
		return nil, err
	}

	if corpus.Work.ID == "" {
		corpus.Work.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return corpus, nil
}

// LoadJSON reads a JSON array of chapter documents, or an object carrying
// work info and chapters.
func LoadJSON(path string) (*ir.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	corpus, err := ir.DecodeDocuments(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return corpus, nil
}
