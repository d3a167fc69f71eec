package report

import (
	"context"
	"log/slog"
	"strings"

	"trafficpulse/internal/infrastructure"
)

// Engine computes the per-row trend metrics for one table.
type Engine struct{}

// NewEngine creates a metrics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives the year-over-year and last-month percentage series
// for a table, plus the section's aggregate totals. Both metric slices
// are aligned by index with the table's rows.
//
// The whole computation deactivates, yielding only absence-markers, when
// fewer than two year columns resolve or when no month row has activity
// in both compared years (a positive 2024 value next to a present 2025
// value). Totals still require both year columns but are otherwise
// independent of the activity gate.
func (e *Engine) Compute(ctx context.Context, t *Table) (Metrics, Totals) {
	logger := infrastructure.LoggerFromContext(ctx)

	metrics := Metrics{
		YOY: make([]Percent, len(t.Rows)),
		LM:  make([]Percent, len(t.Rows)),
	}

	roles := ResolveColumnRoles(t.Labels)
	col2024, has2024 := roles.YearColumn(2024)
	col2025, has2025 := roles.YearColumn(2025)

	totals := e.sumYearColumns(t, roles)

	if len(roles.Years()) < 2 || !has2024 || !has2025 {
		logger.InfoContext(ctx, "metrics deactivated: insufficient year columns",
			slog.Int("year_columns", len(roles.Years())))
		return metrics, totals
	}
	if !e.hasComparableActivity(t, col2024, col2025) {
		logger.InfoContext(ctx, "metrics deactivated: no month with activity in both years")
		return metrics, totals
	}

	e.computeYOY(t, metrics.YOY, col2024, col2025)
	e.computeLM(t, metrics.LM, col2024, col2025)
	return metrics, totals
}

// hasComparableActivity reports whether any month row carries a positive
// 2024 value alongside a present 2025 value.
func (e *Engine) hasComparableActivity(t *Table, col2024, col2025 int) bool {
	for i, row := range t.Rows {
		if row.Kind != RowMonth {
			continue
		}
		prev, prevOK := parseNumeric(t.CellText(i, col2024))
		_, curOK := parseNumeric(t.CellText(i, col2025))
		if prevOK && prev > 0 && curOK {
			return true
		}
	}
	return false
}

// computeYOY fills the year-over-year series: each month row's 2025
// value against the same row's 2024 value. Total rows and unclassified
// rows stay at the absence-marker.
func (e *Engine) computeYOY(t *Table, out []Percent, col2024, col2025 int) {
	for i, row := range t.Rows {
		if row.Kind != RowMonth {
			continue
		}
		prev, prevOK := parseNumeric(t.CellText(i, col2024))
		cur, curOK := parseNumeric(t.CellText(i, col2025))
		out[i] = guardedPercent(cur, curOK, prev, prevOK)
	}
}

// computeLM fills the last-month series, chained within the 2025 column.
// The row identified by content as January compares against the December
// row's 2024 value instead of the running previous value. Total rows are
// skipped and never advance the running value; month rows advance it
// whether or not their own comparison produced a value.
func (e *Engine) computeLM(t *Table, out []Percent, col2024, col2025 int) {
	decBaseline, decOK := e.decemberBaseline(t, col2024)

	var prev float64
	var prevOK bool
	for i, row := range t.Rows {
		if row.Kind != RowMonth {
			continue
		}
		cur, curOK := parseNumeric(t.CellText(i, col2025))

		if row.Month == 1 {
			out[i] = guardedPercent(cur, curOK, decBaseline, decOK)
		} else {
			out[i] = guardedPercent(cur, curOK, prev, prevOK)
		}
		prev, prevOK = cur, curOK
	}
}

// decemberBaseline finds the December row by content ("december"
// anywhere in the first field) and returns its prior-year value.
func (e *Engine) decemberBaseline(t *Table, col2024 int) (float64, bool) {
	for i, row := range t.Rows {
		if strings.Contains(strings.ToLower(row.First()), "december") {
			return parseNumeric(t.CellText(i, col2024))
		}
	}
	return 0, false
}

// sumYearColumns sums the 2024 and 2025 columns over every retained row.
func (e *Engine) sumYearColumns(t *Table, roles ColumnRoles) Totals {
	col2024, has2024 := roles.YearColumn(2024)
	col2025, has2025 := roles.YearColumn(2025)
	if !has2024 || !has2025 {
		return Totals{}
	}

	var totals Totals
	for i := range t.Rows {
		if v, ok := parseNumeric(t.CellText(i, col2024)); ok {
			totals.Y2024 += v
		}
		if v, ok := parseNumeric(t.CellText(i, col2025)); ok {
			totals.Y2025 += v
		}
	}
	totals.Valid = true
	return totals
}
