package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

const htmlFlags = blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink

// ToHTML renders user-written markdown. Raw HTML in the source is dropped
// and only safe link schemes are emitted.
func ToHTML(input string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: htmlFlags})
	return string(blackfriday.Run([]byte(input), blackfriday.WithRenderer(renderer)))
}

// ToText strips markdown formatting and keeps only link text, leaving prose
// suitable for analysis.
func ToText(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")

	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := tagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(html.UnescapeString(plain)), " ")
}
