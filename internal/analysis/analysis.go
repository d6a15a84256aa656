// Package analysis assembles the full report for a piece of text from the
// lexicon pipeline and the role catalog.
package analysis

import (
	"errors"
	"strings"

	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/textanalysis"
)

const (
	MAX_TOKENS_RETURNED = 50
	TOP_FREQUENCIES     = 20
)

var (
	ErrEmptyText     = errors.New("text is required")
	ErrNegativeLimit = errors.New("max_length must not be negative")
)

type TextAnalyzer interface {
	Clean(text string) string
	Tokenize(text string) []string
	Analyze(text string) models.SentimentResult
	Summarize(text string, maxWords int) string
	TopFrequencies(cleaned string, n int) []models.WordCount
}

type RoleSummarizer interface {
	Summary(role, content string) string
	Explanation(role string) string
}

type Service struct {
	analyzer TextAnalyzer
	roles    RoleSummarizer
}

func NewService(analyzer TextAnalyzer, roles RoleSummarizer) *Service {
	return &Service{analyzer: analyzer, roles: roles}
}

// Run analyzes req.Text. The extractive budget comes from req.MaxLength when
// set, else from the summary type preset.
func (s *Service) Run(req models.AnalysisRequest) (models.AnalysisResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return models.AnalysisResult{}, ErrEmptyText
	}
	if req.MaxLength < 0 {
		return models.AnalysisResult{}, ErrNegativeLimit
	}

	lengths := req.SummaryType.Lengths()
	budget := lengths.Extractive
	if req.MaxLength > 0 {
		budget = req.MaxLength
	}

	cleaned := s.analyzer.Clean(req.Text)
	tokens := s.analyzer.Tokenize(req.Text)

	result := models.AnalysisResult{
		Stats:          textanalysis.Stats(req.Text),
		Cleaned:        cleaned,
		Tokens:         tokens[:min(len(tokens), MAX_TOKENS_RETURNED)],
		TotalTokens:    len(tokens),
		Sentiment:      s.analyzer.Analyze(req.Text),
		Summary:        s.analyzer.Summarize(req.Text, budget),
		Frequencies:    s.analyzer.TopFrequencies(cleaned, TOP_FREQUENCIES),
		WordCloud:      models.DefaultWordCloudOptions(),
		SummaryLengths: lengths,
	}

	if role := strings.TrimSpace(req.Role); role != "" && s.roles != nil {
		result.RoleSummary = s.roles.Summary(role, req.Text)
		result.RoleContext = s.roles.Explanation(role)
	}

	return result, nil
}
