package osis

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FocuswithJustin/sid/core/booknames"
	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
	"github.com/FocuswithJustin/sid/core/ref"
)

// ExpanderState carries cross-reference labelling across placeholders.
// Labels run a..z, aa..az, ba..bz and so on, restarting at "a" whenever the
// (book, chapter) of the placeholder changes.
type ExpanderState struct {
	PrevBook    string
	PrevChapter string

	// Letter is the last letter of the next label.
	Letter rune

	// Prefix is the first letter of the next label, or 0 for none.
	Prefix rune
}

// NewExpanderState returns the state for the start of a pass.
func NewExpanderState() ExpanderState {
	return ExpanderState{Letter: 'a'}
}

// Label returns the label the next cross-reference receives.
func (s ExpanderState) Label() string {
	if s.Prefix == 0 {
		return string(s.Letter)
	}
	return string([]rune{s.Prefix, s.Letter})
}

// enter resets the labels when the placeholder belongs to a new chapter.
func (s ExpanderState) enter(book, chapter string) ExpanderState {
	if book != s.PrevBook || chapter != s.PrevChapter {
		return ExpanderState{PrevBook: book, PrevChapter: chapter, Letter: 'a'}
	}
	return s
}

// advance moves to the next label. Past "zz" the prefix wraps to "a" and
// labels repeat.
func (s ExpanderState) advance() ExpanderState {
	if s.Letter == 'z' {
		if s.Prefix == 0 {
			s.Prefix = 'a'
		} else {
			s.Prefix++
		}
		s.Letter = 'a'
	} else {
		s.Letter++
	}

	if s.Prefix > 'z' {
		slog.Warn("crossref_labels_exhausted",
			"book", s.PrevBook,
			"chapter", s.PrevChapter,
		)
		s.Prefix = 'a'
	}
	return s
}

// ExpandCrossRefs replaces every |[|book|chapter|verse|...|refs|]|
// placeholder in text with an OSIS crossReference note. Text outside the
// placeholders is kept byte for byte.
func ExpandCrossRefs(text string, st ExpanderState) (string, ExpanderState, error) {
	if !strings.Contains(text, ir.CrossRefOpen) {
		return text, st, nil
	}

	parts := strings.Split(text, ir.CrossRefOpen)

	var sb strings.Builder
	sb.WriteString(parts[0])

	for _, p := range parts[1:] {
		body, after, ok := strings.Cut(p, ir.CrossRefClose)
		if !ok {
			return "", st, errors.NewParse("cross-reference", "", fmt.Sprintf("missing %q after %q", ir.CrossRefClose, truncate(p)))
		}

		fields := strings.Split(body, ir.FieldSeparator)
		if len(fields) < 4 {
			return "", st, errors.NewParse("cross-reference", "", fmt.Sprintf("header %q needs book|chapter|verse|refs", body))
		}
		book, chapter, verse := fields[0], fields[1], fields[2]

		code, err := booknames.ToOSIS(book)
		if err != nil {
			return "", st, err
		}

		st = st.enter(book, chapter)
		label := st.Label()

		fmt.Fprintf(&sb, `<note type="crossReference" n="%s" osisID="%s.%s.%s!crossReference.%s">`,
			label, code, chapter, verse, label)
		for i, r := range ir.SplitRefs(fields[len(fields)-1]) {
			osisRef, err := OSISRef(r)
			if err != nil {
				return "", st, err
			}
			if i > 0 {
				sb.WriteString(";")
			}
			fmt.Fprintf(&sb, `<reference osisRef="%s">%s</reference>`, osisRef, ref.Condense(strings.TrimSpace(r)))
		}
		sb.WriteString("</note>")
		sb.WriteString(after)

		st = st.advance()
	}

	return sb.String(), st, nil
}

// OSISRef converts a human-readable reference into the dotted form used in
// osisRef attributes, e.g. "Genesis 3:5-3:9" becomes "Gen.3.5-9".
func OSISRef(r string) (string, error) {
	resolved, err := booknames.ToOSIS(r)
	if err != nil {
		return "", err
	}
	condensed := ref.Condense(resolved)
	return strings.NewReplacer(" ", ".", ":", ".").Replace(condensed), nil
}

func truncate(s string) string {
	const limit = 40
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
