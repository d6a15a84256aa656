package textanalysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordTokens splits text into word and punctuation tokens, close enough to
// a Treebank tokenizer for the filters in this package: letters and digits
// form words, '-' and '.' stay inside a word when surrounded by word runes,
// contractions are split off ("don't" -> "do" "n't", "it's" -> "it" "'s"),
// fused words are split ("cannot" -> "can" "not", "gonna" -> "gon" "na"),
// and every other non-space rune becomes its own token.
func wordTokens(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, splitContraction(current.String())...)
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case isWordRune(r):
			current.WriteRune(r)
		case current.Len() > 0 && isJoiner(r) && i+1 < len(runes) && isWordRune(runes[i+1]):
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-' || r == '.'
}

// fusedWords are the whole words the Treebank tokenizer splits in two, keyed
// by lowercase form with the length of the first part.
var fusedWords = map[string]int{
	"cannot": 3,
	"gimme":  3,
	"gonna":  3,
	"gotta":  3,
	"lemme":  3,
	"wanna":  3,
}

func splitContraction(word string) []string {
	lower := strings.ToLower(word)
	if cut, ok := fusedWords[lower]; ok {
		return []string{word[:cut], word[cut:]}
	}

	for _, suffix := range []string{"n't", "n’t"} {
		if strings.HasSuffix(lower, suffix) && len(word) > len(suffix) {
			cut := len(word) - len(suffix)
			return []string{word[:cut], word[cut:]}
		}
	}

	if idx := strings.LastIndexAny(word, "'’"); idx > 0 {
		return []string{word[:idx], word[idx:]}
	}

	return []string{word}
}

// isAlpha mirrors str.isalpha: non-empty and letters only.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// contentWords returns the lowercase alphabetic tokens of text that are not
// stopwords. It is the token stream the summarizer scores with.
func (a *Analyzer) contentWords(text string) []string {
	var words []string
	for _, tok := range wordTokens(text) {
		if !isAlpha(tok) {
			continue
		}
		lower := strings.ToLower(tok)
		if a.IsStopword(lower) {
			continue
		}
		words = append(words, lower)
	}
	return words
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
