package ir

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/sid/core/errors"
)

// Placeholder delimiters embedded in verse text.
const (
	FootnoteMarker = "|||"
	CrossRefOpen   = "|[|"
	CrossRefClose  = "|]|"

	// FieldSeparator separates the fields of a placeholder body.
	FieldSeparator = "|"
)

// SpanKind discriminates the pieces of a verse text.
type SpanKind int

// Span kinds.
const (
	SpanText SpanKind = iota
	SpanFootnote
	SpanCrossRef
)

// String returns the span kind name.
func (k SpanKind) String() string {
	switch k {
	case SpanText:
		return "text"
	case SpanFootnote:
		return "footnote"
	case SpanCrossRef:
		return "crossref"
	default:
		return "unknown"
	}
}

// Span is one piece of a verse text.
type Span struct {
	Kind SpanKind

	// Text is the plain text for SpanText and the note body for SpanFootnote.
	Text string

	// Book and Chapter locate a placeholder. Verse is set for cross-references.
	Book    string
	Chapter string
	Verse   string

	// Refs are the target references of a cross-reference, blanks dropped.
	Refs []string
}

// ParseSpans splits a verse text into plain text and placeholder spans.
// Unpaired, nested or short placeholders are a *errors.ParseError.
func ParseSpans(text string) ([]Span, error) {
	var spans []Span
	rest := text

	for rest != "" {
		fn := strings.Index(rest, FootnoteMarker)
		xr := strings.Index(rest, CrossRefOpen)
		cl := strings.Index(rest, CrossRefClose)

		open := earliest(fn, xr)
		if cl >= 0 && (open < 0 || cl < open) {
			return nil, spanError("unmatched %q", CrossRefClose)
		}
		if open < 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest})
			break
		}
		if open > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest[:open]})
		}

		if open == fn {
			body := rest[fn+len(FootnoteMarker):]
			end := strings.Index(body, FootnoteMarker)
			if end < 0 {
				return nil, spanError("unpaired footnote marker %q", FootnoteMarker)
			}
			span, err := footnoteSpan(body[:end])
			if err != nil {
				return nil, err
			}
			spans = append(spans, span)
			rest = body[end+len(FootnoteMarker):]
			continue
		}

		body := rest[xr+len(CrossRefOpen):]
		end := strings.Index(body, CrossRefClose)
		if end < 0 {
			return nil, spanError("cross-reference without %q", CrossRefClose)
		}
		span, err := crossRefSpan(body[:end])
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
		rest = body[end+len(CrossRefClose):]
	}

	return spans, nil
}

// SplitRefs splits a comma-separated reference list, dropping blanks.
func SplitRefs(s string) []string {
	var refs []string
	for _, r := range strings.Split(s, ",") {
		if strings.TrimSpace(r) != "" {
			refs = append(refs, r)
		}
	}
	return refs
}

func footnoteSpan(body string) (Span, error) {
	if strings.Contains(body, CrossRefOpen) || strings.Contains(body, CrossRefClose) {
		return Span{}, spanError("cross-reference nested in footnote %q", body)
	}
	fields := strings.SplitN(body, FieldSeparator, 3)
	if len(fields) < 3 {
		return Span{}, spanError("footnote %q needs book|chapter|note", body)
	}
	return Span{Kind: SpanFootnote, Book: fields[0], Chapter: fields[1], Text: fields[2]}, nil
}

func crossRefSpan(body string) (Span, error) {
	if strings.Contains(body, CrossRefOpen) || strings.Contains(body, FootnoteMarker) {
		return Span{}, spanError("placeholder nested in cross-reference %q", body)
	}
	fields := strings.Split(body, FieldSeparator)
	if len(fields) < 4 {
		return Span{}, spanError("cross-reference %q needs book|chapter|verse|refs", body)
	}
	return Span{
		Kind:    SpanCrossRef,
		Book:    fields[0],
		Chapter: fields[1],
		Verse:   fields[2],
		Refs:    SplitRefs(fields[len(fields)-1]),
	}, nil
}

// earliest returns the smaller non-negative index, or -1.
func earliest(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func spanError(format string, args ...interface{}) error {
	return errors.NewParse("placeholder", "", fmt.Sprintf(format, args...))
}
