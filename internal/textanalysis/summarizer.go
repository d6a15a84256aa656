package textanalysis

import (
	"sort"
	"strings"
)

// TopSentences is how many ranked sentences are considered for a summary,
// regardless of the word budget.
const TopSentences = 3

type scoredSentence struct {
	index int
	score int
	text  string
}

// Summarize builds an extractive summary of at most maxWords words.
//
// Sentences are scored by the summed document frequency of their content
// words; the best TopSentences are put back in document order and appended
// until the next one would overflow maxWords. A single-sentence input falls
// back to its first maxWords content words. An empty result means no
// summary fit the budget.
func (a *Analyzer) Summarize(text string, maxWords int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	sentences := a.splitSentences(text)
	switch len(sentences) {
	case 0:
		return ""
	case 1:
		return keywordFallback(a.contentWords(text), maxWords)
	}

	freqs := make(map[string]int)
	for _, w := range a.contentWords(text) {
		freqs[w]++
	}

	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		score := 0
		for _, w := range a.contentWords(s) {
			score += freqs[w]
		}
		scored[i] = scoredSentence{index: i, score: score, text: s}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > TopSentences {
		scored = scored[:TopSentences]
	}

	// Back to document order. Sentences are tracked by position, so two
	// sentences with identical text are never both pulled in by one match.
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].index < scored[j].index
	})

	var summary []string
	wordCount := 0
	for _, s := range scored {
		n := len(strings.Fields(s.text))
		if wordCount+n > maxWords {
			break
		}
		summary = append(summary, s.text)
		wordCount += n
	}

	return strings.Join(summary, " ")
}

func (a *Analyzer) splitSentences(text string) []string {
	var out []string
	for _, s := range a.splitter.Tokenize(text) {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func keywordFallback(words []string, maxWords int) string {
	if maxWords <= 0 {
		return ""
	}
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
