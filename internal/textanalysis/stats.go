package textanalysis

import (
	"strings"

	"github.com/spacesedan/textpulse/internal/models"
)

// Stats reports the quick counts shown next to submitted text. Sentences and
// paragraphs are naive splits on "." and blank lines.
func Stats(text string) models.TextStats {
	return models.TextStats{
		Characters: runeLen(text),
		Words:      len(strings.Fields(text)),
		Sentences:  len(strings.Split(text, ".")),
		Paragraphs: len(strings.Split(text, "\n\n")),
	}
}
