package osis

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
)

// FootnoteState carries footnote numbering across placeholders. FnID is the
// number the next footnote receives; it restarts at 1 whenever the
// (book, chapter) of the placeholder changes.
type FootnoteState struct {
	PrevBook    string
	PrevChapter string
	FnID        int
}

// NewFootnoteState returns the state for the start of a pass.
func NewFootnoteState() FootnoteState {
	return FootnoteState{FnID: 1}
}

// inlineMarkup restores the emphasis tags sources put into footnote text,
// which the printer escaped.
var inlineMarkup = strings.NewReplacer(
	"&lt;i&gt;", "<i>",
	"&lt;/i&gt;", "</i>",
	"&lt;b&gt;", "<b>",
	"&lt;/b&gt;", "</b>",
)

// ExpandFootnotes replaces every |||book|chapter|note||| placeholder in text
// with an OSIS explanation note.
func ExpandFootnotes(text string, st FootnoteState) (string, FootnoteState, error) {
	if !strings.Contains(text, ir.FootnoteMarker) {
		return text, st, nil
	}

	parts := strings.Split(text, ir.FootnoteMarker)
	if len(parts)%2 == 0 {
		return "", st, errors.NewParse("footnote", "", fmt.Sprintf("unpaired %q marker", ir.FootnoteMarker))
	}

	var sb strings.Builder
	sb.WriteString(parts[0])

	for i := 1; i < len(parts); i += 2 {
		fields := strings.SplitN(parts[i], ir.FieldSeparator, 3)
		if len(fields) < 3 {
			return "", st, errors.NewParse("footnote", "", fmt.Sprintf("body %q needs book|chapter|note", parts[i]))
		}
		book, chapter, note := fields[0], fields[1], fields[2]

		if book != st.PrevBook || chapter != st.PrevChapter {
			st = FootnoteState{PrevBook: book, PrevChapter: chapter, FnID: 1}
		}

		fmt.Fprintf(&sb, `<note type="explanation" n="%d">%s</note>`, st.FnID, inlineMarkup.Replace(note))
		sb.WriteString(parts[i+1])

		st.FnID++
	}

	return sb.String(), st, nil
}
