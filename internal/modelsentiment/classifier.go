// Package modelsentiment cross-checks lexicon sentiment with a local ONNX
// text-classification model run through hugot.
package modelsentiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const PIPELINE_NAME = "reviewSentimentPipeline"

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Classifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

// Load opens the model at modelPath. When the path does not exist and
// modelName is set, the model is downloaded from the Hugging Face hub into
// the parent directory first.
func Load(modelPath, modelName string) (*Classifier, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if modelName == "" {
			return nil, fmt.Errorf("[ModelSentiment] model %s not found", modelPath)
		}

		modelDir := filepath.Dir(modelPath)
		if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("[ModelSentiment] failed to create model directory: %w", err)
		}

		slog.Info("[ModelSentiment] Model not found, downloading...", slog.String("model", modelName))
		downloaded, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[ModelSentiment] failed to download %s: %w", modelName, err)
		}
		modelPath = downloaded
		slog.Info("[ModelSentiment] Model downloaded successfully", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[ModelSentiment] failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      PIPELINE_NAME,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[ModelSentiment] failed to initialize pipeline: %w", err)
	}

	slog.Info("[ModelSentiment] Classifier ready", slog.String("path", modelPath))
	return &Classifier{session: session, pipeline: pipeline}, nil
}

// Classify returns the top label for each text, in input order.
func (c *Classifier) Classify(texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	output, err := c.pipeline.RunPipeline(texts)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("[ModelSentiment] pipeline failed: %w", err)
	}

	if len(output.ClassificationOutputs) != len(texts) {
		return nil, fmt.Errorf("[ModelSentiment] got %d outputs for %d inputs",
			len(output.ClassificationOutputs), len(texts))
	}

	predictions := make([]Prediction, len(texts))
	for i, scores := range output.ClassificationOutputs {
		labels := make([]Prediction, len(scores))
		for j, s := range scores {
			labels[j] = Prediction{Label: s.Label, Score: float64(s.Score)}
		}
		predictions[i] = Top(labels)
	}
	return predictions, nil
}

func (c *Classifier) Close() {
	c.session.Destroy()
}

// Top returns the highest scoring label, upper-cased. The first one wins ties.
func Top(labels []Prediction) Prediction {
	var best Prediction
	for i, p := range labels {
		if i == 0 || p.Score > best.Score {
			best = p
		}
	}
	best.Label = strings.ToUpper(best.Label)
	return best
}
