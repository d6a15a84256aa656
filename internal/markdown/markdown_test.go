package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got := ToHTML("# Title\n\nSome **bold** text.")
	for _, want := range []string{"<h1>Title</h1>", "<strong>bold</strong>"} {
		if !strings.Contains(got, want) {
			t.Errorf("ToHTML() = %q, missing %q", got, want)
		}
	}
}

func TestToHTML_DropsRawHTML(t *testing.T) {
	got := ToHTML("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script>") {
		t.Errorf("ToHTML() kept raw HTML: %q", got)
	}
}

func TestToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "emphasis", input: "I **really** like it", want: "I really like it"},
		{name: "link keeps text", input: "see [the docs](https://example.com/x) now", want: "see the docs now"},
		{name: "heading and list", input: "# Notes\n\n- one\n- two", want: "Notes one two"},
		{name: "entities", input: "Tom & Jerry", want: "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToText(tt.input); got != tt.want {
				t.Errorf("ToText() = %q, want %q", got, tt.want)
			}
		})
	}
}
