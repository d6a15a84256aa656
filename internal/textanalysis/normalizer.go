package textanalysis

import (
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\.\S+`)
	disallowedPattern = regexp.MustCompile(`[^A-Za-z0-9₹\s]`)
)

// Clean normalizes raw text into a space-separated stream of lowercase
// tokens with URLs, punctuation, stopwords and one-character tokens removed.
// Blank input yields "".
func (a *Analyzer) Clean(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = urlPattern.ReplaceAllString(text, "")
	text = disallowedPattern.ReplaceAllString(text, "")

	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(f)
		if runeLen(tok) <= 1 || a.IsStopword(tok) {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// Tokenize lowercases the raw text and returns its alphabetic, non-stopword
// tokens. It runs on the original text, not on Clean's output, so the two
// may disagree (Tokenize keeps single letters, Clean keeps digits).
func (a *Analyzer) Tokenize(text string) []string {
	tokens := []string{}
	for _, tok := range wordTokens(strings.ToLower(text)) {
		if isAlpha(tok) && !a.IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
