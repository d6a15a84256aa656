package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spacesedan/textpulse/internal/analysis"
	"github.com/spacesedan/textpulse/internal/logging"
	"github.com/spacesedan/textpulse/internal/markdown"
	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/roles"
	"github.com/spacesedan/textpulse/internal/textanalysis"
)

func main() {
	var (
		input       = flag.String("input", "", "File to analyze (default: stdin)")
		summaryType = flag.String("summary-type", string(models.SummaryLong), "Summary preset: small, long or document")
		maxLength   = flag.Int("max-length", 0, "Extractive summary word budget, overrides the preset")
		role        = flag.String("role", "", "Reader role for a perspective summary")
		isMarkdown  = flag.Bool("markdown", false, "Strip markdown formatting before analyzing")
		asJSON      = flag.Bool("json", false, "Print the raw JSON report")
	)
	flag.Parse()

	logging.InitLogger(slog.LevelWarn)

	text, err := readInput(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}
	if *isMarkdown {
		text = markdown.ToText(text)
	}

	analyzer, err := textanalysis.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load analyzer: %v\n", err)
		os.Exit(1)
	}
	catalog, err := roles.NewCatalog(analyzer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load roles: %v\n", err)
		os.Exit(1)
	}

	result, err := analysis.NewService(analyzer, catalog).Run(models.AnalysisRequest{
		Text:        text,
		SummaryType: models.SummaryType(*summaryType),
		MaxLength:   *maxLength,
		Role:        *role,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(renderReport(result))
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
