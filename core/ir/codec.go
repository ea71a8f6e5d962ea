package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/sid/core/errors"
)

// Legacy marker strings.
const (
	markerSectionBreak = "---"
	markerHeading      = "#"
)

// UnmarshalJSON decodes a typed item object, a legacy marker string or a
// legacy ["number", "text"] verse pair.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	item, ok, err := decodeItem(data)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewParse("JSON", "", "empty content item")
	}
	*c = item
	return nil
}

// UnmarshalJSON decodes a chapter document. Chapter may be a number or a
// numeric string; blank legacy items are dropped.
func (d *ChapterDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Book    string            `json:"book"`
		Chapter json.RawMessage   `json:"chapter"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	chapter, err := decodeNumber(raw.Chapter)
	if err != nil {
		return errors.NewParse("JSON", "", fmt.Sprintf("%s %s: %v", raw.Book, raw.Chapter, err))
	}

	doc := ChapterDocument{Book: raw.Book, Content: make([]ContentItem, 0, len(raw.Content))}
	doc.Chapter, err = strconv.Atoi(chapter)
	if err != nil {
		return errors.NewParse("JSON", "", fmt.Sprintf("%s %q is not a number", raw.Book, chapter))
	}

	for i, r := range raw.Content {
		item, ok, err := decodeItem(r)
		if err != nil {
			return errors.Wrapf(err, "%s %d: content[%d]", raw.Book, doc.Chapter, i)
		}
		if ok {
			doc.Content = append(doc.Content, item)
		}
	}

	*d = doc
	return nil
}

// decodeItem decodes one content item. ok is false for blank legacy
// entries, which sources emit as padding.
func decodeItem(data []byte) (ContentItem, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ContentItem{}, false, errors.NewParse("JSON", "", "empty input")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ContentItem{}, false, err
		}
		return parseMarker(s)

	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return ContentItem{}, false, err
		}
		return parsePair(pair)

	case '{':
		type plain ContentItem
		var item plain
		if err := json.Unmarshal(data, &item); err != nil {
			return ContentItem{}, false, err
		}
		if !item.Kind.IsValid() {
			return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("unknown content kind %q", item.Kind))
		}
		return ContentItem(item), true, nil

	default:
		return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("unexpected value %s", data))
	}
}

// parseMarker interprets a legacy marker string.
func parseMarker(s string) (ContentItem, bool, error) {
	s = strings.TrimLeft(s, " \t\r\n")
	switch {
	case s == "":
		return ContentItem{}, false, nil
	case s == markerSectionBreak:
		return SectionBreak(), true, nil
	case strings.HasPrefix(s, markerHeading):
		hashes := len(s) - len(strings.TrimLeft(s, markerHeading))
		rest := s[hashes:]
		if !strings.HasPrefix(rest, " ") {
			return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("malformed heading marker %q", s))
		}
		return Heading(markerLevel(hashes), strings.TrimSpace(rest)), true, nil
	default:
		return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("unknown marker %q", s))
	}
}

// markerLevel maps a run of '#' to a heading level. "##" is the chapter
// title; every other run titles a section, "####" a subsection.
func markerLevel(hashes int) int {
	switch hashes {
	case 2:
		return HeadingChapter
	case 4:
		return HeadingSubsection
	default:
		return HeadingSection
	}
}

// parsePair interprets a legacy ["number", "text"] verse. A one-element
// list holding a marker (["---"], ["## Title"]) is that marker.
func parsePair(pair []json.RawMessage) (ContentItem, bool, error) {
	if len(pair) == 0 || len(pair) > 2 {
		return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("verse pair has %d elements", len(pair)))
	}

	if len(pair) == 1 {
		if s, ok := listMarker(pair[0]); ok {
			return parseMarker(s)
		}
	}

	number, err := decodeNumber(pair[0])
	if err != nil {
		return ContentItem{}, false, err
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return ContentItem{}, false, nil
	}

	var text string
	if len(pair) == 2 {
		if err := json.Unmarshal(pair[1], &text); err != nil {
			return ContentItem{}, false, errors.NewParse("JSON", "", fmt.Sprintf("verse %s text: %v", number, err))
		}
	}
	return Verse(number, text), true, nil
}

// listMarker reports whether data is a JSON string spelling a section
// break or heading marker.
func listMarker(data json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	t := strings.TrimLeft(s, " \t\r\n")
	if t == markerSectionBreak || strings.HasPrefix(t, markerHeading) {
		return s, true
	}
	return "", false
}

// decodeNumber accepts a JSON string or number and returns its text.
func decodeNumber(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("missing value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// DecodeDocuments decodes either a JSON array of chapter documents or a
// corpus object {"info": {...}, "chapters": [...]}.
func DecodeDocuments(data []byte) (*Corpus, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.NewParse("JSON", "", "empty input")
	}

	corpus := &Corpus{}
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &corpus.Documents); err != nil {
			return nil, errors.Wrap(err, "decoding chapter documents")
		}
	case '{':
		if err := json.Unmarshal(data, corpus); err != nil {
			return nil, errors.Wrap(err, "decoding corpus")
		}
	default:
		return nil, errors.NewParse("JSON", "", "expected an array or an object")
	}
	return corpus, nil
}

// EncodeDocuments writes a corpus in the typed object form.
func EncodeDocuments(c *Corpus) ([]byte, error) {
	return jsonMarshalIndent(c, "", "  ")
}
