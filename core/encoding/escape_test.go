package encoding

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		fn    func(string) string
		name  string
		input string
		want  string
	}{
		{EscapeXMLText, "text/plain", "In the beginning", "In the beginning"},
		{EscapeXMLText, "text/entities", "Tom & Jerry <3 >", "Tom &amp; Jerry &lt;3 &gt;"},
		{EscapeXMLText, "text/quotes kept", `He said "hello"`, `He said "hello"`},
		{EscapeXMLText, "text/emphasis", "<i>Or</i> light", "&lt;i&gt;Or&lt;/i&gt; light"},
		{EscapeXMLText, "text/placeholder", "|||Genesis|1|note|||", "|||Genesis|1|note|||"},
		{EscapeXMLText, "text/newline", "a\nb", "a\nb"},
		{EscapeXMLText, "text/already escaped", "&amp;", "&amp;amp;"},
		{EscapeXMLAttr, "attr/osisID", "Gen.1.1", "Gen.1.1"},
		{EscapeXMLAttr, "attr/mixed", `<a & "b">`, "&lt;a &amp; &quot;b&quot;&gt;"},
		{EscapeConf, "conf/empty", "", ""},
		{EscapeConf, "conf/one line", "NIV (biblegateway)", "NIV (biblegateway)"},
		{EscapeConf, "conf/newlines", "one\ntwo\r\nthree\rfour", "one two three four"},
		{EscapeConf, "conf/trimmed", "  padded\n", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
