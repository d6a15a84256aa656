package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ParseSentimentLabel accepts the three known labels and rejects anything else.
func ParseSentimentLabel(s string) (SentimentLabel, bool) {
	switch SentimentLabel(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return SentimentLabel(s), true
	default:
		return "", false
	}
}

// SentimentResult is the VADER polarity breakdown for a piece of raw text.
// Positive+Negative+Neutral sum to ~1.0 for non-empty text.
type SentimentResult struct {
	Label    SentimentLabel `json:"sentiment"`
	Compound float64        `json:"compound_score"`
	Positive float64        `json:"positive"`
	Negative float64        `json:"negative"`
	Neutral  float64        `json:"neutral"`
}
