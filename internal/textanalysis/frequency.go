package textanalysis

import (
	"sort"
	"strings"

	"github.com/spacesedan/textpulse/internal/models"
)

// Frequencies counts the whitespace-separated tokens of already-cleaned text,
// skipping one-character tokens. The table is ordered by count descending;
// equal counts keep the order in which the words first appeared.
func (a *Analyzer) Frequencies(cleaned string) []models.WordCount {
	counts := make(map[string]int)
	var order []string

	for _, tok := range strings.Fields(cleaned) {
		if runeLen(tok) <= 1 {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	table := make([]models.WordCount, 0, len(order))
	for _, w := range order {
		table = append(table, models.WordCount{Word: w, Count: counts[w]})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})

	return table
}

// TopFrequencies returns at most n entries of the frequency table.
func (a *Analyzer) TopFrequencies(cleaned string, n int) []models.WordCount {
	table := a.Frequencies(cleaned)
	if n >= 0 && len(table) > n {
		table = table[:n]
	}
	return table
}
