package source

import (
	"context"
	"database/sql"
	"os"
	"sort"
	"strconv"

	"github.com/FocuswithJustin/sid/core/booknames"
	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
	"github.com/FocuswithJustin/sid/core/sqlite"
	"github.com/FocuswithJustin/sid/internal/logging"
)

// LoadSQLite reads a bible database laid out as
//
//	meta(id, title, language, description, version)  -- optional
//	books(id, name, book_order)                       -- optional
//	verses(book, chapter, verse, text)
//
// Book IDs are OSIS or USFM codes, or names when no books table maps them.
// Each verse row becomes one verse item; chapters come back in canonical
// order.
func LoadSQLite(ctx context.Context, path string) (*ir.Corpus, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer db.Close()

	if ok, err := hasTable(ctx, db, "verses"); err != nil {
		return nil, errors.NewIO("query", path, err)
	} else if !ok {
		return nil, errors.NewParse("SQLite", path, "no verses table")
	}

	corpus := &ir.Corpus{}
	if err := readMeta(ctx, db, &corpus.Work); err != nil {
		return nil, errors.NewIO("query", path, err)
	}

	names, err := readBookNames(ctx, db)
	if err != nil {
		return nil, errors.NewIO("query", path, err)
	}

	docs, err := readVerses(ctx, db, names)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	corpus.Documents = docs

	logging.DebugContext(ctx, "sqlite_source_loaded", "path", path, "driver", sqlite.CurrentDriver().Type,
		"chapters", len(docs), "verses", corpus.VerseCount())
	return corpus, nil
}

func hasTable(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n)
	return n > 0, err
}

// readMeta fills w from the first meta row, if the table exists.
func readMeta(ctx context.Context, db *sql.DB, w *ir.Work) error {
	ok, err := hasTable(ctx, db, "meta")
	if err != nil || !ok {
		return err
	}

	var id, title, language, description sql.NullString
	err = db.QueryRowContext(ctx,
		"SELECT id, title, language, description FROM meta LIMIT 1").
		Scan(&id, &title, &language, &description)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	w.ID = id.String
	w.Title = title.String
	w.Language = language.String
	w.Description = description.String
	return nil
}

// readBookNames maps book IDs onto the names in the books table.
func readBookNames(ctx context.Context, db *sql.DB) (map[string]string, error) {
	names := make(map[string]string)
	ok, err := hasTable(ctx, db, "books")
	if err != nil || !ok {
		return names, err
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name.String
	}
	return names, rows.Err()
}

// resolveBook finds the canonical entry for a verses.book value, trying
// the code first and then the name from the books table.
func resolveBook(id string, names map[string]string) (booknames.Book, error) {
	if b, err := booknames.LookupCode(id); err == nil {
		return b, nil
	}
	if name := names[id]; name != "" {
		if b, err := booknames.Lookup(name); err == nil {
			return b, nil
		}
	}
	return booknames.Lookup(id)
}

type chapterKey struct {
	order   int
	chapter int
}

func readVerses(ctx context.Context, db *sql.DB, names map[string]string) ([]ir.ChapterDocument, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT book, chapter, verse, text FROM verses ORDER BY chapter, verse")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resolved := make(map[string]booknames.Book)
	chapters := make(map[chapterKey]*ir.ChapterDocument)

	for rows.Next() {
		var book string
		var chapter, verse int
		var text sql.NullString
		if err := rows.Scan(&book, &chapter, &verse, &text); err != nil {
			return nil, err
		}

		b, ok := resolved[book]
		if !ok {
			b, err = resolveBook(book, names)
			if err != nil {
				return nil, err
			}
			resolved[book] = b
		}

		key := chapterKey{b.Order, chapter}
		doc := chapters[key]
		if doc == nil {
			doc = &ir.ChapterDocument{Book: b.Name, Chapter: chapter}
			chapters[key] = doc
		}
		doc.Content = append(doc.Content, ir.Verse(strconv.Itoa(verse), text.String))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, errors.NewParse("SQLite", "", "verses table is empty")
	}

	keys := make([]chapterKey, 0, len(chapters))
	for k := range chapters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].order != keys[j].order {
			return keys[i].order < keys[j].order
		}
		return keys[i].chapter < keys[j].chapter
	})

	docs := make([]ir.ChapterDocument, 0, len(keys))
	for _, k := range keys {
		docs = append(docs, *chapters[k])
	}
	return docs, nil
}
