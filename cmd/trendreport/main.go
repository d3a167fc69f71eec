// Command trendreport computes year-over-year and month-over-month
// trend metrics for every section of a monthly traffic workbook, rebuilds
// each section's Total and % Change rows, and writes generated executive
// summaries next to the data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"trafficpulse/internal/config"
	"trafficpulse/internal/grid"
	"trafficpulse/internal/infrastructure"
	"trafficpulse/internal/narrative"
	"trafficpulse/internal/pipeline"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file (default: config.yaml)")
		input       = flag.String("in", "", "input workbook path (overrides config)")
		output      = flag.String("out", "", "output workbook path (overrides config)")
		sheet       = flag.String("sheet", "", "sheet to process (default: first sheet)")
		noNarrative = flag.Bool("no-narrative", false, "skip summary generation, write fallback text")
	)
	flag.Parse()

	applyFlagOverrides(*input, *output, *sheet, *noNarrative)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.NewRunContext(context.Background())
	logger := infrastructure.LoggerFromContext(ctx)

	logger.InfoContext(ctx, "starting trend report run",
		slog.String("input", cfg.Input.WorkbookPath),
		slog.String("output", cfg.Output.WorkbookPath))

	if err := run(ctx, cfg); err != nil {
		logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlagOverrides routes CLI flags through the environment so they
// take the same precedence over the config file as ordinary env
// overrides.
func applyFlagOverrides(input, output, sheet string, noNarrative bool) {
	if input != "" {
		os.Setenv("TP_INPUT_WORKBOOK_PATH", input)
	}
	if output != "" {
		os.Setenv("TP_OUTPUT_WORKBOOK_PATH", output)
	}
	if sheet != "" {
		os.Setenv("TP_INPUT_SHEET", sheet)
	}
	if noNarrative {
		os.Setenv("TP_NARRATIVE_DISABLED", "true")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := infrastructure.LoggerFromContext(ctx)

	wb, err := grid.Open(cfg.Input.WorkbookPath, cfg.Input.Sheet)
	if err != nil {
		return err
	}
	defer wb.Close()

	snap, err := wb.Snapshot()
	if err != nil {
		logger.WarnContext(ctx, "formula snapshot unavailable, using raw reads",
			slog.String("error", err.Error()))
	}

	summarizer, err := buildSummarizer(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.New(wb, snap, summarizer).Run(ctx)
	if err != nil {
		return err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := wb.Save(cfg.Output.WorkbookPath); err != nil {
		return err
	}

	logger.InfoContext(ctx, "report written",
		slog.String("path", cfg.Output.WorkbookPath),
		slog.Int("sections_found", result.SectionsFound),
		slog.Int("sections_processed", result.SectionsProcessed),
		slog.Int("sections_active", result.SectionsActive))
	return nil
}

func buildSummarizer(ctx context.Context, cfg *config.Config) (*narrative.Router, error) {
	if cfg.Narrative.Disabled {
		return narrative.NewRouter(nil), nil
	}
	generator, err := narrative.NewGeminiGenerator(ctx, cfg.Narrative)
	if err != nil {
		return nil, err
	}
	return narrative.NewRouter(generator), nil
}
