// Package pipeline orchestrates a full report run: scan the sheet,
// then extract, compute, summarize and write back one section at a
// time. Processing is single-threaded by design; sections share the
// workbook and a later section's span starts where the previous one
// ends.
package pipeline

import (
	"context"
	"log/slog"

	"trafficpulse/internal/infrastructure"
	"trafficpulse/internal/report"
)

// Summarizer produces the narrative text for one section.
// *narrative.Router implements it.
type Summarizer interface {
	Summarize(ctx context.Context, sectionName string, m report.Metrics) string
}

// Result summarizes one run.
type Result struct {
	SectionsFound     int
	SectionsProcessed int
	SectionsActive    int
}

// Runner drives the per-section processing loop over one workbook.
type Runner struct {
	grid       report.Surface
	source     report.ValueSource
	engine     *report.Engine
	summarizer Summarizer
}

// New creates a runner. source carries the formula-resolved snapshot
// captured before the run and may be nil.
func New(g report.Surface, source report.ValueSource, summarizer Summarizer) *Runner {
	return &Runner{
		grid:       g,
		source:     source,
		engine:     report.NewEngine(),
		summarizer: summarizer,
	}
}

// Run processes every section in sheet order. A section's write-back
// failure stops the run; metric and narrative degradation within a
// section does not.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	sections := report.Scan(ctx, r.grid)
	result := Result{SectionsFound: len(sections)}
	writer := report.NewWriter(r.grid, r.source)

	for _, sec := range sections {
		logger.InfoContext(ctx, "processing section",
			slog.String("section", sec.Name),
			slog.Int("header_row", sec.HeaderRow))

		table := report.Extract(ctx, r.grid, sec)
		metrics, totals := r.engine.Compute(ctx, table)
		if metrics.HasAny() {
			result.SectionsActive++
		}

		cols := writer.ResolveOutputColumns(sec)
		if err := writer.WriteMetrics(ctx, sec, table, metrics, cols); err != nil {
			return result, err
		}
		if err := writer.RecomputeTotalRow(ctx, sec, table); err != nil {
			return result, err
		}
		if err := writer.RecomputePercentChangeRow(ctx, sec, table, totals); err != nil {
			return result, err
		}

		summary := r.summarizer.Summarize(ctx, sec.Name, metrics)
		if err := writer.WriteNarrative(ctx, sec, table, cols, summary); err != nil {
			return result, err
		}

		result.SectionsProcessed++
	}

	logger.InfoContext(ctx, "run complete",
		slog.Int("sections_found", result.SectionsFound),
		slog.Int("sections_processed", result.SectionsProcessed),
		slog.Int("sections_active", result.SectionsActive))
	return result, nil
}
