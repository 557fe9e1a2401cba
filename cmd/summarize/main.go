// Package main provides a CLI command for summarizing a paper without the HTTP API.
// Usage: paper-digest-summarize (--file PATH | --pdf PATH | --url URL) [--mode racing|sequential] [--output json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"paper-digest/internal/app"
	"paper-digest/internal/config"
	"paper-digest/internal/domain/entity"
	"paper-digest/internal/infra/fetcher"
	"paper-digest/internal/observability/logging"
	"paper-digest/internal/usecase/summarize"
	"paper-digest/internal/utils/text"
)

// SummaryOutput represents the JSON output format for a summary.
type SummaryOutput struct {
	Summary        string          `json:"summary"`
	Strategy       string          `json:"strategy"`
	Fallback       bool            `json:"fallback"`
	ElapsedMS      int64           `json:"elapsed_ms"`
	OriginalWords  int             `json:"original_words"`
	SummaryWords   int             `json:"summary_words"`
	ReadingMinutes int             `json:"reading_minutes"`
	Attempts       []AttemptOutput `json:"attempts"`
}

// AttemptOutput represents one strategy attempt.
type AttemptOutput struct {
	Strategy  string `json:"strategy"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func main() {
	var (
		file         string
		pdfPath      string
		url          string
		mode         string
		outputFormat string
		timeout      time.Duration
	)

	flag.StringVar(&file, "file", "", "Plain text file to summarize (- for stdin)")
	flag.StringVar(&pdfPath, "pdf", "", "PDF file to summarize")
	flag.StringVar(&url, "url", "", "URL of a paper page to summarize")
	flag.StringVar(&mode, "mode", "", "Orchestration mode: racing or sequential (default from SUMMARIZE_MODE)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall time limit for ingestion")
	flag.Parse()

	if countSet(file, pdfPath, url) != 1 || (outputFormat != "text" && outputFormat != "json") {
		usage()
		os.Exit(2)
	}

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if mode != "" {
		m, err := summarize.ParseMode(mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		cfg.Summarize.Mode = m
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	content, err := readInput(ctx, cfg, file, pdfPath, url)
	if err != nil {
		logger.Error("failed to read input", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: could not extract text: %v\n", err)
		os.Exit(1)
	}

	summary, err := svc.SummarizeText(ctx, content)
	if err != nil {
		if errors.Is(err, entity.ErrEmptyDocument) {
			fmt.Fprintln(os.Stderr, "Error: the input contains no text")
		} else {
			fmt.Fprintf(os.Stderr, "Error: summarize failed: %v\n", err)
		}
		os.Exit(1)
	}

	if outputFormat == "json" {
		outputJSON(content, summary)
	} else {
		outputText(content, summary)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: paper-digest-summarize (--file PATH | --pdf PATH | --url URL) [--mode racing|sequential] [--output json]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Exactly one input is required.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  paper-digest-summarize --pdf attention.pdf")
	fmt.Fprintln(os.Stderr, "  paper-digest-summarize --url https://arxiv.org/abs/1706.03762 --mode sequential")
	fmt.Fprintln(os.Stderr, "  cat paper.txt | paper-digest-summarize --file - --output json")
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

// newService builds the same strategy set as the API, without metrics.
// Racing invocations run on plain goroutines.
func newService(cfg *config.Config, logger *slog.Logger) (*summarize.Service, error) {
	overrides, err := config.LoadStrategies(cfg.StrategiesFile)
	if err != nil {
		return nil, err
	}
	opts := app.Options{Logger: logger}
	registry, err := app.NewRegistry(cfg, overrides, opts)
	if err != nil {
		return nil, err
	}
	return app.NewService(cfg, registry, opts), nil
}

func readInput(ctx context.Context, cfg *config.Config, file, pdfPath, url string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case file != "":
		data, err := os.ReadFile(file) // #nosec G304 -- path supplied by the operator
		return string(data), err
	case pdfPath != "":
		return fetcher.NewPDFExtractor().ExtractFile(pdfPath)
	default:
		f, err := fetcher.New(cfg.Fetch)
		if err != nil {
			return "", err
		}
		return f.FetchContent(ctx, url)
	}
}

// outputText prints the summary in human-readable format.
func outputText(content string, s entity.Summary) {
	fmt.Printf("%s\n\n", s.Text)

	source := s.StrategyID
	if s.Fallback {
		source += " (fallback)"
	}
	fmt.Printf("Strategy: %s in %s\n", source, s.Elapsed.Round(time.Millisecond))
	fmt.Printf("Words: %d -> %d (about %d min to read)\n",
		text.CountWords(content), text.CountWords(s.Text),
		text.ReadingTime(text.CountWords(s.Text), text.DefaultWordsPerMinute))

	for _, a := range s.Attempts {
		if a.Accepted() {
			continue
		}
		fmt.Printf("  %s: %s (%v)\n", a.StrategyID, a.Outcome, a.Reason)
	}
}

// outputJSON prints the summary in JSON format.
func outputJSON(content string, s entity.Summary) {
	attempts := make([]AttemptOutput, len(s.Attempts))
	for i, a := range s.Attempts {
		attempts[i] = AttemptOutput{
			Strategy:  a.StrategyID,
			Outcome:   a.Outcome.String(),
			ElapsedMS: a.Elapsed.Milliseconds(),
		}
		if a.Reason != nil {
			attempts[i].Reason = a.Reason.Error()
		}
	}

	summaryWords := text.CountWords(s.Text)
	output := SummaryOutput{
		Summary:        strings.TrimSpace(s.Text),
		Strategy:       s.StrategyID,
		Fallback:       s.Fallback,
		ElapsedMS:      s.Elapsed.Milliseconds(),
		OriginalWords:  text.CountWords(content),
		SummaryWords:   summaryWords,
		ReadingMinutes: text.ReadingTime(summaryWords, text.DefaultWordsPerMinute),
		Attempts:       attempts,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}
