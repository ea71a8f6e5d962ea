package ir

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	sterrors "github.com/FocuswithJustin/sid/core/errors"
)

func TestConstructors(t *testing.T) {
	if got := SectionBreak(); got.Kind != KindSectionBreak {
		t.Errorf("SectionBreak().Kind = %q", got.Kind)
	}
	h := Heading(3, "The Fall")
	if h.Kind != KindHeading || h.Level != 3 || h.Text != "The Fall" {
		t.Errorf("Heading() = %+v", h)
	}
	v := Verse("1", "In the beginning")
	if v.Kind != KindVerse || v.Number != "1" || v.Text != "In the beginning" {
		t.Errorf("Verse() = %+v", v)
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindSectionBreak, KindHeading, KindVerse} {
		if !k.IsValid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if Kind("poem").IsValid() {
		t.Error("unknown kind should be invalid")
	}
}

func TestDecodeLegacyMarkers(t *testing.T) {
	input := `{
		"book": "Genesis",
		"chapter": 1,
		"content": [
			"---",
			"## The Creation",
			"### Day One",
			"#### Light",
			"",
			["1", "In the beginning"],
			[2, "And the earth"],
			["", "dropped"],
			["3"],
			["---"],
			["## The Flood"],
			["### Day Two"],
			[" #### Waters"]
		]
	}`

	var doc ChapterDocument
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := ChapterDocument{
		Book:    "Genesis",
		Chapter: 1,
		Content: []ContentItem{
			SectionBreak(),
			Heading(2, "The Creation"),
			Heading(3, "Day One"),
			Heading(4, "Light"),
			Verse("1", "In the beginning"),
			Verse("2", "And the earth"),
			Verse("3", ""),
			SectionBreak(),
			Heading(2, "The Flood"),
			Heading(3, "Day Two"),
			Heading(4, "Waters"),
		},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("decoded = %+v\nwant %+v", doc, want)
	}
}

func TestDecodeTypedItems(t *testing.T) {
	input := `{"book":"Psalms","chapter":"23","content":[
		{"kind":"section"},
		{"kind":"heading","level":3,"text":"A Psalm of David"},
		{"kind":"verse","number":"1","text":"The LORD is my shepherd;\n    I shall not want."}
	]}`

	var doc ChapterDocument
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Chapter != 23 {
		t.Errorf("Chapter = %d, want 23", doc.Chapter)
	}
	if len(doc.Content) != 3 {
		t.Fatalf("got %d items, want 3", len(doc.Content))
	}
	if doc.Content[2].Text != "The LORD is my shepherd;\n    I shall not want." {
		t.Errorf("verse text = %q", doc.Content[2].Text)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown marker", `{"book":"Genesis","chapter":1,"content":["hello"]}`},
		{"heading without space", `{"book":"Genesis","chapter":1,"content":["##Title"]}`},
		{"unknown kind", `{"book":"Genesis","chapter":1,"content":[{"kind":"poem"}]}`},
		{"long pair", `{"book":"Genesis","chapter":1,"content":[["1","a","b"]]}`},
		{"empty pair", `{"book":"Genesis","chapter":1,"content":[[]]}`},
		{"number item", `{"book":"Genesis","chapter":1,"content":[7]}`},
		{"non-numeric chapter", `{"book":"Genesis","chapter":"one","content":[]}`},
		{"missing chapter", `{"book":"Genesis","content":[]}`},
		{"text not string", `{"book":"Genesis","chapter":1,"content":[["1",2]]}`},
		{"list heading without space", `{"book":"Genesis","chapter":1,"content":[["##Title"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc ChapterDocument
			if err := json.Unmarshal([]byte(tt.input), &doc); err == nil {
				t.Errorf("Unmarshal should fail, got %+v", doc)
			}
		})
	}
}

func TestDecodeErrorIsParseError(t *testing.T) {
	var doc ChapterDocument
	err := json.Unmarshal([]byte(`{"book":"Genesis","chapter":1,"content":["bogus"]}`), &doc)
	var pe *sterrors.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v should be a ParseError", err)
	}
	if !strings.Contains(err.Error(), "Genesis 1: content[0]") {
		t.Errorf("error %q should name the item", err)
	}
}

func TestItemRoundTripIsTyped(t *testing.T) {
	doc := ChapterDocument{
		Book:    "John",
		Chapter: 3,
		Content: []ContentItem{SectionBreak(), Heading(2, "Nicodemus"), Verse("16", "For God so loved")},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `{"kind":"verse","number":"16","text":"For God so loved"}`) {
		t.Errorf("Marshal() = %s, want typed verse object", data)
	}

	var back ChapterDocument
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("round trip = %+v, want %+v", back, doc)
	}
}

func TestDecodeDocuments(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		c, err := DecodeDocuments([]byte(`[{"book":"Jude","chapter":1,"content":[["1","Jude"]]}]`))
		if err != nil {
			t.Fatalf("DecodeDocuments failed: %v", err)
		}
		if len(c.Documents) != 1 || c.Work.ID != "" {
			t.Errorf("corpus = %+v", c)
		}
	})

	t.Run("object", func(t *testing.T) {
		c, err := DecodeDocuments([]byte(`{
			"info": {"id": "KJV", "title": "King James Version", "language": "en"},
			"chapters": [{"book":"Jude","chapter":1,"content":[["1","Jude"]]}]
		}`))
		if err != nil {
			t.Fatalf("DecodeDocuments failed: %v", err)
		}
		if c.Work.ID != "KJV" || c.Work.Language != "en" || len(c.Documents) != 1 {
			t.Errorf("corpus = %+v", c)
		}
	})

	for _, bad := range []string{"", "42", `[{"book":"Jude","chapter":1,"content":["?"]}]`, `{"chapters": 3}`} {
		if _, err := DecodeDocuments([]byte(bad)); err == nil {
			t.Errorf("DecodeDocuments(%q) should fail", bad)
		}
	}
}

func TestEncodeDocuments(t *testing.T) {
	c := &Corpus{
		Work:      Work{ID: "KJV"},
		Documents: []ChapterDocument{{Book: "Jude", Chapter: 1, Content: []ContentItem{Verse("1", "Jude")}}},
	}
	data, err := EncodeDocuments(c)
	if err != nil {
		t.Fatalf("EncodeDocuments failed: %v", err)
	}
	back, err := DecodeDocuments(data)
	if err != nil {
		t.Fatalf("DecodeDocuments failed: %v", err)
	}
	if !reflect.DeepEqual(back, c) {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}

	orig := jsonMarshalIndent
	defer func() { jsonMarshalIndent = orig }()
	jsonMarshalIndent = func(interface{}, string, string) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}
	if _, err := EncodeDocuments(c); err == nil {
		t.Error("EncodeDocuments should propagate marshal errors")
	}
}

func TestCorpusHelpers(t *testing.T) {
	c := &Corpus{Documents: []ChapterDocument{
		{Book: "Genesis", Chapter: 1, Content: []ContentItem{SectionBreak(), Verse("1", "a"), Verse("2", "")}},
		{Book: "Genesis", Chapter: 2, Content: []ContentItem{Verse("1", "b")}},
		{Book: "Exodus", Chapter: 1, Content: []ContentItem{Heading(2, "t"), Verse("1", "c")}},
	}}

	if got := c.Books(); !reflect.DeepEqual(got, []string{"Genesis", "Exodus"}) {
		t.Errorf("Books() = %v", got)
	}
	if got := c.VerseCount(); got != 4 {
		t.Errorf("VerseCount() = %d, want 4", got)
	}
}
