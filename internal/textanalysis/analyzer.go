// Package textanalysis holds the text pipeline: cleaning and tokenization,
// VADER sentiment scoring, extractive summarization and word frequencies.
//
// All methods on *Analyzer are safe for concurrent use. The analyzer's
// resources (stopwords, VADER lexicon, Punkt sentence model) are loaded once
// by Load and never mutated afterwards.
package textanalysis

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonreiter/govader"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

type sentenceSplitter interface {
	Tokenize(text string) []*sentences.Sentence
}

type Analyzer struct {
	stopwords map[string]struct{}
	vader     *govader.SentimentIntensityAnalyzer
	splitter  sentenceSplitter
}

var (
	analyzerInstance *Analyzer
	analyzerErr      error
	analyzerOnce     sync.Once
)

// Load initializes the process-wide analyzer on first use and returns it.
// Later calls return the same instance (or the same error).
func Load() (*Analyzer, error) {
	analyzerOnce.Do(func() {
		start := time.Now()
		slog.Info("[TextAnalysis] Loading stopwords, VADER lexicon and sentence model")

		splitter, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			analyzerErr = fmt.Errorf("[TextAnalysis] failed to load sentence model: %w", err)
			return
		}

		analyzerInstance = &Analyzer{
			stopwords: englishStopwords(),
			vader:     govader.NewSentimentIntensityAnalyzer(),
			splitter:  splitter,
		}

		slog.Info("[TextAnalysis] Analyzer ready",
			slog.Int("stopwords", len(analyzerInstance.stopwords)),
			slog.Duration("elapsed", time.Since(start)))
	})

	return analyzerInstance, analyzerErr
}

// MustLoad is Load for binaries that cannot serve without the analyzer.
func MustLoad() *Analyzer {
	a, err := Load()
	if err != nil {
		panic(err)
	}
	return a
}

// IsStopword reports whether the lowercase word is in the English stopword set.
func (a *Analyzer) IsStopword(word string) bool {
	_, ok := a.stopwords[word]
	return ok
}
