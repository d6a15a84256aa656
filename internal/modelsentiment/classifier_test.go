package modelsentiment

import (
	"path/filepath"
	"testing"
)

func TestTop(t *testing.T) {
	tests := []struct {
		name   string
		labels []Prediction
		want   Prediction
	}{
		{
			name:   "highest score",
			labels: []Prediction{{Label: "negative", Score: 0.1}, {Label: "positive", Score: 0.9}},
			want:   Prediction{Label: "POSITIVE", Score: 0.9},
		},
		{
			name:   "tie keeps first",
			labels: []Prediction{{Label: "NEGATIVE", Score: 0.5}, {Label: "POSITIVE", Score: 0.5}},
			want:   Prediction{Label: "NEGATIVE", Score: 0.5},
		},
		{
			name: "empty",
			want: Prediction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Top(tt.labels); got != tt.want {
				t.Errorf("Top() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingModelWithoutName(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.onnx"), ""); err == nil {
		t.Error("expected an error for a missing model without a download name")
	}
}
