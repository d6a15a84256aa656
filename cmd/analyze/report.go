package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spacesedan/textpulse/internal/models"
)

const REPORT_WIDTH = 72

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(REPORT_WIDTH)

	sentimentColors = map[models.SentimentLabel]lipgloss.Color{
		models.SentimentPositive: lipgloss.Color("10"),
		models.SentimentNegative: lipgloss.Color("9"),
		models.SentimentNeutral:  lipgloss.Color("11"),
	}
)

func renderReport(r models.AnalysisResult) string {
	sections := []string{
		headerStyle.Render("Text Analysis"),
		sectionStyle.Render(renderStats(r.Stats)),
		sectionStyle.Render(renderSentiment(r.Sentiment)),
		sectionStyle.Render(headerStyle.Render("Summary") + "\n" + orNone(r.Summary)),
	}

	if r.RoleSummary != "" {
		sections = append(sections, sectionStyle.Render(
			headerStyle.Render("Perspective")+"\n"+r.RoleSummary+"\n"+mutedStyle.Render(r.RoleContext)))
	}

	sections = append(sections, sectionStyle.Render(renderFrequencies(r.Frequencies)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderStats(s models.TextStats) string {
	return fmt.Sprintf("%s\ncharacters %d  words %d  sentences %d  paragraphs %d",
		headerStyle.Render("Stats"), s.Characters, s.Words, s.Sentences, s.Paragraphs)
}

func renderSentiment(s models.SentimentResult) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(sentimentColors[s.Label]).Render(strings.ToUpper(string(s.Label)))
	return fmt.Sprintf("%s\n%s  compound %.3f  pos %.3f  neg %.3f  neu %.3f",
		headerStyle.Render("Sentiment"), label, s.Compound, s.Positive, s.Negative, s.Neutral)
}

func renderFrequencies(counts []models.WordCount) string {
	if len(counts) == 0 {
		return headerStyle.Render("Top words") + "\n" + mutedStyle.Render("(none)")
	}

	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Word, c.Count))
	}
	return headerStyle.Render("Top words") + "\n" + strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return mutedStyle.Render("(nothing fit the budget)")
	}
	return s
}
