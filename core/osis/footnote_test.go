package osis

import (
	"errors"
	"strings"
	"testing"

	sterrors "github.com/FocuswithJustin/sid/core/errors"
)

func TestExpandFootnotesNumbering(t *testing.T) {
	text := "a|||Genesis|1|first|||" +
		"b|||Genesis|1|second|||" +
		"c|||Genesis|2|third|||d"

	got, st, err := ExpandFootnotes(text, NewFootnoteState())
	if err != nil {
		t.Fatalf("ExpandFootnotes failed: %v", err)
	}

	want := `a<note type="explanation" n="1">first</note>` +
		`b<note type="explanation" n="2">second</note>` +
		`c<note type="explanation" n="1">third</note>d`
	if got != want {
		t.Errorf("ExpandFootnotes() =\n%s\nwant\n%s", got, want)
	}
	if st.PrevBook != "Genesis" || st.PrevChapter != "2" || st.FnID != 2 {
		t.Errorf("final state = %+v", st)
	}
}

func TestExpandFootnotesRestoresEmphasis(t *testing.T) {
	text := "|||Genesis|1|Heb. &lt;i&gt;day&lt;/i&gt; &lt;b&gt;one&lt;/b&gt; &amp; more|||"
	got, _, err := ExpandFootnotes(text, NewFootnoteState())
	if err != nil {
		t.Fatal(err)
	}
	want := `<note type="explanation" n="1">Heb. <i>day</i> <b>one</b> &amp; more</note>`
	if got != want {
		t.Errorf("ExpandFootnotes() = %s, want %s", got, want)
	}
}

func TestExpandFootnotesKeepsPipesInNote(t *testing.T) {
	got, _, err := ExpandFootnotes("|||Genesis|1|a|b|||", NewFootnoteState())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, ">a|b</note>") {
		t.Errorf("ExpandFootnotes() = %s", got)
	}
}

func TestExpandFootnotesUnchanged(t *testing.T) {
	text := "<verse>no notes || here</verse>"
	got, st, err := ExpandFootnotes(text, NewFootnoteState())
	if err != nil || got != text || st != NewFootnoteState() {
		t.Errorf("ExpandFootnotes() = %q, %+v, %v", got, st, err)
	}
}

func TestExpandFootnotesStateCarriesOver(t *testing.T) {
	_, st, err := ExpandFootnotes("|||Exodus|3|one|||", NewFootnoteState())
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := ExpandFootnotes("|||Exodus|3|two|||", st)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `n="2"`) {
		t.Errorf("second call should continue numbering: %s", got)
	}
}

func TestExpandFootnotesErrors(t *testing.T) {
	for _, text := range []string{
		"a|||Genesis|1|unterminated",
		"a|||Genesis|short|||",
	} {
		_, _, err := ExpandFootnotes(text, NewFootnoteState())
		var pe *sterrors.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ExpandFootnotes(%q) error = %v, want ParseError", text, err)
		}
	}
}
