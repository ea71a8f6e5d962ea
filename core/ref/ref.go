// Package ref parses human-readable scripture locators and condenses
// reference ranges into their shortest display form.
package ref

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Locator is one endpoint of a reference such as "1 Kings 3:5".
type Locator struct {
	// Book is the book name or code as written (e.g. "1 Kings", "Gen").
	// Empty when the endpoint continues the book of a previous endpoint.
	Book string `json:"book,omitempty"`

	// Chapter is the chapter number, or the bare number when no verse follows.
	Chapter int `json:"chapter"`

	// Verse is the verse number; only meaningful when HasVerse is set.
	Verse int `json:"verse,omitempty"`

	// HasVerse reports whether a ":verse" part was present.
	HasVerse bool `json:"has_verse,omitempty"`
}

// String renders the locator as "<book> <chapter>:<verse>".
func (l *Locator) String() string {
	var sb strings.Builder
	if l.Book != "" {
		sb.WriteString(l.Book)
		sb.WriteString(" ")
	}
	sb.WriteString(strconv.Itoa(l.Chapter))
	if l.HasVerse {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(l.Verse))
	}
	return sb.String()
}

// locatorGrammar is the participle grammar for a single endpoint.
// Examples: "Genesis 3:5", "1 Kings 2", "3:9", "9"
//
//nolint:govet // participle grammar tags are not standard struct tags
type locatorGrammar struct {
	Book    string `parser:"@Book?"`
	Chapter int    `parser:"@Int"`
	Verse   *int   `parser:"( \":\" @Int )?"`
}

// locatorLexer tokenizes endpoints. Book names may start with a 1-3 ordinal
// and contain spaces, so the Book rule must come before Int.
var locatorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `(?:[1-3]\s*)?\p{L}[\p{L}.' ]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var locatorParser = participle.MustBuild[locatorGrammar](
	participle.Lexer(locatorLexer),
	participle.Elide("Whitespace"),
)

// ParseLocator parses one reference endpoint.
func ParseLocator(s string) (*Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty locator")
	}

	parsed, err := locatorParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid locator %q: %w", s, err)
	}

	loc := &Locator{
		Book:    strings.TrimSpace(parsed.Book),
		Chapter: parsed.Chapter,
	}
	if parsed.Verse != nil {
		loc.Verse = *parsed.Verse
		loc.HasVerse = true
	}
	return loc, nil
}

// Condense shortens a "book chapter:verse-book chapter:verse" range.
//
//	"Genesis 3:5-Genesis 3:9" -> "Genesis 3:5-9"
//	"Genesis 3:5-3:9"         -> "Genesis 3:5-9"
//	"Genesis 3:5-4:2"         -> "Genesis 3:5=4:2"
//
// The "=" separator marks a span across chapters and is part of the output
// format. Single references, ranges across books and anything that does not
// parse are returned unchanged.
func Condense(ref string) string {
	if !strings.Contains(ref, "-") {
		return ref
	}

	parts := strings.Split(ref, "-")
	if len(parts) != 2 {
		return passthrough(ref, "expected exactly two endpoints")
	}

	start, err := ParseLocator(parts[0])
	if err != nil {
		return passthrough(ref, err.Error())
	}
	end, err := ParseLocator(parts[1])
	if err != nil {
		return passthrough(ref, err.Error())
	}

	if start.Book == "" || !start.HasVerse {
		return passthrough(ref, "first endpoint needs book, chapter and verse")
	}

	if end.Book == "" {
		end.Book = start.Book
		if !end.HasVerse {
			// "Genesis 3:5-9": the bare number is a verse in the same chapter.
			end.Verse = end.Chapter
			end.Chapter = start.Chapter
			end.HasVerse = true
		}
	}

	if start.Book != end.Book {
		return ref
	}
	if !end.HasVerse {
		return passthrough(ref, "second endpoint has no verse")
	}

	if start.Chapter == end.Chapter {
		return fmt.Sprintf("%s %d:%d-%d", start.Book, start.Chapter, start.Verse, end.Verse)
	}
	return fmt.Sprintf("%s %d:%d=%d:%d", start.Book, start.Chapter, start.Verse, end.Chapter, end.Verse)
}

func passthrough(ref, reason string) string {
	slog.Debug("condense_passthrough", "ref", ref, "reason", reason)
	return ref
}
