package xml

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`<?xml version="1.0"?>
<root>
	<element attr="value">text</element>
</root>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	el, err := doc.SelectOne("/root/element")
	if err != nil || el == nil || el.SelectAttr("attr") != "value" || el.InnerText() != "text" {
		t.Fatalf("SelectOne = %v, %v", el, err)
	}

	for _, bad := range []string{"<root><element></root>", "<root></other>"} {
		if _, err := Parse([]byte(bad)); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		xml   string
		valid bool
	}{
		{"well formed", `<?xml version="1.0"?><root><child/></root>`, true},
		{"escaped text", `<root>a &amp; b &lt; c</root>`, true},
		{"unclosed", "<root><child></root>", false},
		{"unterminated", "<root>", false},
		{"bare ampersand", "<root>a & b</root>", false},
		{"undeclared entity", "<root>&nbsp;</root>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check([]byte(tt.xml))
			if (err == nil) != tt.valid {
				t.Fatalf("Check = %v, want valid %v", err, tt.valid)
			}
		})
	}

	err := Check([]byte("<root>\n<a></b></root>"))
	var se *SyntaxError
	if !errors.As(err, &se) || se.Line != 2 {
		t.Fatalf("Check = %#v, want SyntaxError on line 2", err)
	}
	if !strings.HasPrefix(se.Error(), "line 2: ") {
		t.Errorf("Error() = %q", se.Error())
	}
}

func TestRenderTree(t *testing.T) {
	doc := NewDocument()
	root := SubElement(doc, "osis", "xmlns", "http://www.bibletechnologies.net/2003/OSIS/namespace")
	text := SubElement(root, "osisText", "osisIDWork", "KJV", "xml:lang", "en")
	verse := SubElement(text, "verse", "osisID", "Gen.1.1")
	SetText(verse, `In the "beginning" & |||Genesis|1|note|||`)
	SubElement(text, "div", "type", "section")

	got := string(Render(doc, ""))
	want := `<?xml version="1.0" encoding="UTF-8"?>
<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
  <osisText osisIDWork="KJV" xml:lang="en">
    <verse osisID="Gen.1.1">In the "beginning" &amp; |||Genesis|1|note|||</verse>
    <div type="section"/>
  </osisText>
</osis>
`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
	if err := Check([]byte(got)); err != nil {
		t.Errorf("rendered tree is not well formed: %v", err)
	}
}

func TestRenderMixedContent(t *testing.T) {
	doc := NewDocument()
	verse := SubElement(doc, "verse", "osisID", "Ps.23.1")
	SetText(verse, "  ")
	SetText(verse, "The LORD")
	lg := SubElement(verse, "lg")
	SetText(SubElement(lg, "l", "level", "1"), "first\nsecond")

	got := string(Render(doc, "\t"))
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<verse osisID=\"Ps.23.1\">\n" +
		"\tThe LORD\n" +
		"\t<lg>\n" +
		"\t\t<l level=\"1\">first\nsecond</l>\n" +
		"\t</lg>\n" +
		"</verse>\n"
	if got != want {
		t.Errorf("Render() = %q\nwant %q", got, want)
	}
}

func TestSelectAndCount(t *testing.T) {
	doc, err := Parse([]byte(`<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
  <chapter osisID="Gen.1">
    <verse osisID="Gen.1.1">In the beginning</verse>
    <verse osisID="Gen.1.2">And the earth</verse>
  </chapter>
</osis>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	verses, err := doc.Select("//*[local-name()='verse']")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(verses) != 2 || verses[1].SelectAttr("osisID") != "Gen.1.2" {
		t.Fatalf("verses = %v", verses)
	}
	if none, err := doc.SelectOne("//*[local-name()='note']"); err != nil || none != nil {
		t.Errorf("SelectOne(note) = %v, %v; want nil", none, err)
	}

	tests := []struct {
		expr    string
		want    int
		wantErr bool
	}{
		{"count(//*[local-name()='verse'])", 2, false},
		{"//*[local-name()='verse']", 2, false},
		{"count(//*[local-name()='note'])", 0, false},
		{"string(//*[local-name()='verse'])", 0, true},
		{"count(//[", 0, true},
	}
	for _, tt := range tests {
		n, err := doc.Count(tt.expr)
		if (err != nil) != tt.wantErr || n != tt.want {
			t.Errorf("Count(%q) = %d, %v", tt.expr, n, err)
		}
	}

	if _, err := doc.Select("//["); err == nil {
		t.Error("Select should reject an invalid expression")
	}
	if _, err := doc.SelectOne("//["); err == nil {
		t.Error("SelectOne should reject an invalid expression")
	}
}
