package models

type SummaryType string

const (
	SummarySmall    SummaryType = "small"
	SummaryLong     SummaryType = "long"
	SummaryDocument SummaryType = "document"
)

// SummaryLengths holds the word budget for the extractive summary and the
// token bounds handed to the abstractive model.
type SummaryLengths struct {
	Extractive  int `json:"extractive"`
	AbstractMin int `json:"abstractive_min"`
	AbstractMax int `json:"abstractive_max"`
}

var summaryPresets = map[SummaryType]SummaryLengths{
	SummarySmall:    {Extractive: 60, AbstractMin: 15, AbstractMax: 40},
	SummaryLong:     {Extractive: 120, AbstractMin: 30, AbstractMax: 80},
	SummaryDocument: {Extractive: 250, AbstractMin: 60, AbstractMax: 150},
}

// Lengths returns the preset for t, falling back to the "long" preset for
// unknown or empty values.
func (t SummaryType) Lengths() SummaryLengths {
	if l, ok := summaryPresets[t]; ok {
		return l
	}
	return summaryPresets[SummaryLong]
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type TextStats struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
	Sentences  int `json:"sentences"`
	Paragraphs int `json:"paragraphs"`
}

// WordCloudOptions is passed through to whatever renders the cloud image.
type WordCloudOptions struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MaxWords int    `json:"max_words"`
	Colormap string `json:"colormap"`
}

func DefaultWordCloudOptions() WordCloudOptions {
	return WordCloudOptions{Width: 800, Height: 400, MaxWords: 200, Colormap: "viridis"}
}

type AnalysisRequest struct {
	Text        string      `json:"text"`
	SummaryType SummaryType `json:"summary_type,omitempty"`
	MaxLength   int         `json:"max_length,omitempty"`
	Role        string      `json:"role,omitempty"`
}

type AnalysisResult struct {
	Stats          TextStats        `json:"stats"`
	Cleaned        string           `json:"cleaned"`
	Tokens         []string         `json:"tokens"`
	TotalTokens    int              `json:"total_tokens"`
	Sentiment      SentimentResult  `json:"sentiment"`
	Summary        string           `json:"summary"`
	RoleSummary    string           `json:"role_summary,omitempty"`
	RoleContext    string           `json:"role_context,omitempty"`
	Frequencies    []WordCount      `json:"frequencies"`
	WordCloud      WordCloudOptions `json:"word_cloud"`
	SummaryLengths SummaryLengths   `json:"summary_lengths"`
}

type AbstractiveRequest struct {
	Text        string      `json:"text"`
	SummaryType SummaryType `json:"summary_type,omitempty"`
	MinLength   int         `json:"min_length,omitempty"`
	MaxLength   int         `json:"max_length,omitempty"`
}

type AbstractiveResponse struct {
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}
