package models

type SummaryParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type SummaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters SummaryParameters `json:"parameters"`
}

type SummaryResponse struct {
	SummaryText string `json:"summary_text"`
}

// The inference endpoint answers with one entry per input.
type SummaryBatchResponse []SummaryResponse
