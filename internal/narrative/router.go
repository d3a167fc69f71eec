// Package narrative turns computed section metrics into the executive
// summary text written next to each section. Sections route to one of
// two prompts by whether any metric was computed; generation failures
// degrade to deterministic fallback sentences so a section always
// receives a summary.
package narrative

import (
	"context"
	"log/slog"

	"trafficpulse/internal/infrastructure"
	"trafficpulse/internal/report"
)

// Router selects the prompt for a section and produces its summary.
type Router struct {
	generator Generator
}

// NewRouter creates a router. generator may be nil, which disables
// generation and always yields the fallback sentences.
func NewRouter(generator Generator) *Router {
	return &Router{generator: generator}
}

// Summarize produces the summary text for one section. Active sections
// (any computed metric) get the executive prompt fed with the metric
// digest; inactive sections get the empty-section prompt.
func (r *Router) Summarize(ctx context.Context, sectionName string, m report.Metrics) string {
	logger := infrastructure.LoggerFromContext(ctx)

	active := m.HasAny()
	if r.generator == nil {
		return fallback(sectionName, active)
	}

	var prompt string
	if active {
		prompt = executiveSummaryPrompt(sectionName, report.BuildDigest(m))
	} else {
		prompt = emptySectionPrompt(sectionName)
	}

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		logger.WarnContext(ctx, "summary generation failed, using fallback",
			slog.String("section", sectionName),
			slog.String("error", err.Error()))
		return fallback(sectionName, active)
	}
	return text
}

func fallback(sectionName string, active bool) string {
	if active {
		return activeFallback(sectionName)
	}
	return inactiveFallback(sectionName)
}
