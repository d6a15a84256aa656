package textanalysis

import (
	"strings"

	"github.com/spacesedan/textpulse/internal/models"
)

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// LabelFor buckets a VADER compound score. The thresholds decide how reviews
// are counted in post analytics, so they must not drift.
func LabelFor(compound float64) models.SentimentLabel {
	switch {
	case compound >= PositiveThreshold:
		return models.SentimentPositive
	case compound <= NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Analyze scores the raw text with VADER. No cleaning is applied first:
// punctuation, casing and negations all carry signal for the lexicon.
func (a *Analyzer) Analyze(text string) models.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{Label: models.SentimentNeutral}
	}

	scores := a.vader.PolarityScores(text)

	return models.SentimentResult{
		Label:    LabelFor(scores.Compound),
		Compound: scores.Compound,
		Positive: scores.Positive,
		Negative: scores.Negative,
		Neutral:  scores.Neutral,
	}
}
