// Package booknames maps free-form English book names and references onto
// canonical OSIS and USFM book codes.
//
// Every lookup failure is an *errors.UnknownBookError. Callers must
// propagate it: a missing code corrupts every reference ID built from it.
package booknames

import (
	"strings"

	"github.com/FocuswithJustin/sid/core/errors"
)

// Scheme selects the coding scheme a name is resolved into.
type Scheme int

const (
	// SchemeOSIS yields OSIS book codes such as "Gen" or "1Sam".
	SchemeOSIS Scheme = iota
	// SchemeUSFM yields USFM book codes such as "GEN" or "1SA".
	SchemeUSFM
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeOSIS:
		return "osis"
	case SchemeUSFM:
		return "usfm"
	default:
		return "unknown"
	}
}

// byName indexes books by lower-case name, aliases included.
var byName = func() map[string]*Book {
	m := make(map[string]*Book, len(books)+len(aliases))
	for i := range books {
		m[strings.ToLower(books[i].Name)] = &books[i]
	}
	for alias, canonical := range aliases {
		m[alias] = m[canonical]
	}
	return m
}()

// All returns a copy of the canonical book table in canonical order.
func All() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Lookup returns the table entry for a book name (case-insensitive,
// surrounding whitespace ignored).
func Lookup(name string) (Book, error) {
	b, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Book{}, errors.NewUnknownBook(name)
	}
	return *b, nil
}

// byCode indexes books by lower-case OSIS and USFM code.
var byCode = func() map[string]*Book {
	m := make(map[string]*Book, 2*len(books))
	for i := range books {
		m[strings.ToLower(books[i].OSIS)] = &books[i]
		m[strings.ToLower(books[i].USFM)] = &books[i]
	}
	return m
}()

// LookupCode returns the table entry for an OSIS or USFM book code
// (case-insensitive).
func LookupCode(code string) (Book, error) {
	b, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Book{}, errors.NewUnknownBook(code)
	}
	return *b, nil
}

// ChapterCount returns the number of chapters in the named book.
func ChapterCount(name string) (int, error) {
	b, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return b.Chapters, nil
}

// ToOSIS resolves a name or reference into the OSIS scheme.
func ToOSIS(name string) (string, error) {
	return Resolve(name, SchemeOSIS)
}

// ToUSFM resolves a name or reference into the USFM scheme.
func ToUSFM(name string) (string, error) {
	return Resolve(name, SchemeUSFM)
}

// Resolve converts a book name with an optional "chapter:verse" locator into
// "<CODE> <locator>". A hyphenated range is resolved side by side and joined
// with "-", so "Genesis 1:1-Genesis 1:5" becomes "Gen 1:1-Gen 1:5".
//
// A range side that carries only a locator ("Genesis 3:5-3:9") continues the
// book of the side before it and is emitted as the bare locator. This is
// deliberately more lenient than looking up every side as a book name.
func Resolve(name string, scheme Scheme) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	sides := strings.Split(key, "-")

	out := make([]string, 0, len(sides))
	for i, side := range sides {
		book, loc := splitLocator(side)

		if book == "" && loc != "" && i > 0 {
			out = append(out, loc)
			continue
		}

		b, ok := byName[book]
		if !ok {
			return "", errors.NewUnknownBook(name)
		}
		out = append(out, strings.TrimSpace(code(b, scheme)+" "+loc))
	}

	return strings.Join(out, "-"), nil
}

// splitLocator separates "book name chapter:verse" into its book and locator
// parts. The last space-delimited token is a locator when it contains ":" or
// is purely numeric.
func splitLocator(side string) (book, loc string) {
	parts := strings.Fields(side)
	if len(parts) == 0 {
		return "", ""
	}
	last := parts[len(parts)-1]
	if strings.Contains(last, ":") || isDigits(last) {
		return strings.Join(parts[:len(parts)-1], " "), last
	}
	return strings.Join(parts, " "), ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func code(b *Book, scheme Scheme) string {
	if scheme == SchemeUSFM {
		return b.USFM
	}
	return b.OSIS
}
