package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"trafficpulse/internal/grid"
	"trafficpulse/internal/infrastructure"
)

const (
	// totalScanStartColumn is the first physical column considered when
	// recomputing the Total row; the month-label column is excluded.
	totalScanStartColumn = 3

	// sectionSpanEndColumn bounds the horizontal span cleared and
	// rewritten on the % Change row.
	sectionSpanEndColumn = 19

	narrativeColumnWidth = 60
	narrativeHeader      = "Summary / Insights :"
	narrativeFontName    = "Century Gothic"
	narrativeFontSize    = 12
	narrativeBorderColor = "D3D3D3"

	colorUpward   = "00B050"
	colorDeclined = "22577A"
	colorNeutral  = "000000"
)

var (
	upwardPattern   = regexp.MustCompile(`(?i)\bupward\b`)
	declinedPattern = regexp.MustCompile(`(?i)\bdeclined?\b`)
)

// OutputColumns are the physical sheet columns a section's computed
// values land in. Zero means the column is absent from the header.
type OutputColumns struct {
	YOY       int
	LM        int
	Narrative int
}

// Writer recomputes a section's grid-resident aggregate rows and writes
// metrics and narrative text back into the sheet. Numeric reads prefer
// the live grid, which reflects this run's own writes, and fall back to
// the snapshot's evaluated view for formula-bearing cells the live read
// cannot resolve.
type Writer struct {
	grid   Surface
	source ValueSource
}

// NewWriter creates a writer over the grid. source may be nil, in which
// case formula-bearing cells have no evaluated fallback.
func NewWriter(g Surface, source ValueSource) *Writer {
	return &Writer{grid: g, source: source}
}

// numericValue reads a cell as a number: the live cell when it parses,
// else the snapshot's evaluated value.
func (w *Writer) numericValue(row, col int) (float64, bool) {
	if v, ok := parseNumeric(w.grid.Cell(row, col)); ok {
		return v, true
	}
	if w.source != nil {
		return parseNumeric(w.source.Value(row, col))
	}
	return 0, false
}

// ResolveOutputColumns scans the section's header once for the metric
// output columns and derives the narrative anchor from them: two right
// of the last-month column, three right of the year-over-year column, or
// a fixed fallback when neither resolves.
func (w *Writer) ResolveOutputColumns(sec Section) OutputColumns {
	var cols OutputColumns
	width := w.grid.RowWidth(sec.HeaderRow)
	for col := 1; col <= width; col++ {
		header := w.grid.Cell(sec.HeaderRow, col)
		if cols.YOY == 0 && isYOYHeader(header) {
			cols.YOY = col
		}
		if cols.LM == 0 && isLMHeader(header) {
			cols.LM = col
		}
	}

	switch {
	case cols.LM != 0:
		cols.Narrative = cols.LM + 2
	case cols.YOY != 0:
		cols.Narrative = cols.YOY + 3
	default:
		cols.Narrative = fallbackNarrativeColumn
	}
	return cols
}

// WriteMetrics writes the computed percentages into the resolved output
// columns. Absence-markers write nothing, so pre-existing cell content
// survives deactivated rows.
func (w *Writer) WriteMetrics(ctx context.Context, sec Section, t *Table, m Metrics, cols OutputColumns) error {
	for i := range t.Rows {
		row := sec.DataStartRow + i
		if cols.YOY != 0 && i < len(m.YOY) && m.YOY[i].Valid {
			if err := w.grid.SetCell(row, cols.YOY, m.YOY[i].String()); err != nil {
				return err
			}
		}
		if cols.LM != 0 && i < len(m.LM) && m.LM[i].Valid {
			if err := w.grid.SetCell(row, cols.LM, m.LM[i].String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// findRow locates the first row in the section's data span whose
// month-label cell satisfies the predicate.
func (w *Writer) findRow(sec Section, match func(string) bool) (int, bool) {
	for row := sec.DataStartRow; row <= sec.DataEndRow; row++ {
		if match(w.grid.Cell(row, firstDataColumn)) {
			return row, true
		}
	}
	return 0, false
}

// RecomputeTotalRow refreshes the section's grid-resident Total row from
// the table's month data. Each year-bearing header column is re-summed
// over the month rows only and written back as a whole number; zero and
// non-finite sums leave the existing cell untouched. Sections without a
// Total row, or with fewer than two resolvable year columns, are
// skipped.
func (w *Writer) RecomputeTotalRow(ctx context.Context, sec Section, t *Table) error {
	logger := infrastructure.LoggerFromContext(ctx)

	totalRow, ok := w.findRow(sec, isTotalText)
	if !ok {
		logger.DebugContext(ctx, "no total row in section", slog.String("section", sec.Name))
		return nil
	}
	if yearCols := w.collectYearColumns(sec); len(yearCols) < 2 {
		logger.DebugContext(ctx, "total row left untouched: fewer than two year columns",
			slog.String("section", sec.Name),
			slog.Int("year_columns", len(yearCols)))
		return nil
	}

	width := w.grid.RowWidth(sec.HeaderRow)
	if width > sectionSpanEndColumn {
		width = sectionSpanEndColumn
	}
	for col := totalScanStartColumn; col <= width; col++ {
		header := strings.ToLower(strings.TrimSpace(w.grid.Cell(sec.HeaderRow, col)))
		if header == "" || isMetricHeader(header) {
			continue
		}
		if !strings.Contains(header, "year") && headerYear(header) == 0 {
			continue
		}

		colIdx, ok := t.columnByHeader(header)
		if !ok {
			continue
		}
		var sum float64
		for i, row := range t.Rows {
			if row.Kind != RowMonth {
				continue
			}
			if v, vok := parseNumeric(t.CellText(i, colIdx)); vok {
				sum += v
			}
		}
		if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			continue
		}
		if err := w.grid.SetCell(totalRow, col, math.Round(sum)); err != nil {
			return err
		}
	}
	return nil
}

// columnByHeader returns the 0-indexed table column whose label matches
// the lowercased header text.
func (t *Table) columnByHeader(lowerHeader string) (int, bool) {
	for i, label := range t.Labels {
		if strings.ToLower(strings.TrimSpace(label)) == lowerHeader {
			return i, true
		}
	}
	return -1, false
}

// headerYear returns the tracked year a header column carries, or 0.
func headerYear(lowerHeader string) int {
	for _, year := range trackedYears {
		if strings.Contains(lowerHeader, fmt.Sprintf("%d", year)) {
			return year
		}
	}
	return 0
}

type yearColumn struct {
	col  int
	year int
}

// RecomputePercentChangeRow rebuilds the section's grid-resident
// % Change row: the row is cleared and relabeled, then each year column
// past the earliest (the reference) receives its percentage versus the
// reference total. The latest year uses the January-August partial sums
// against its immediate predecessor instead, annotated accordingly. The
// year-over-year output column never receives a value here.
//
// totals supplies the pre-computed 2024/2025 aggregates as the fallback
// when the Total row's cell does not read back numerically; other years
// fall back to re-summing the table column.
func (w *Writer) RecomputePercentChangeRow(ctx context.Context, sec Section, t *Table, totals Totals) error {
	logger := infrastructure.LoggerFromContext(ctx)

	totalRow, hasTotal := w.findRow(sec, isTotalText)
	changeRow, hasChange := w.findRow(sec, isPercentChangeText)
	if !hasTotal || !hasChange {
		logger.DebugContext(ctx, "section lacks total or % change row",
			slog.String("section", sec.Name),
			slog.Bool("has_total", hasTotal),
			slog.Bool("has_change", hasChange))
		return nil
	}

	for col := firstDataColumn; col <= sectionSpanEndColumn; col++ {
		if err := w.grid.ClearCell(changeRow, col); err != nil {
			return err
		}
	}
	if err := w.grid.SetCell(changeRow, firstDataColumn, "% Change"); err != nil {
		return err
	}

	yearCols := w.collectYearColumns(sec)
	if len(yearCols) < 2 {
		return nil
	}

	yearTotals := w.yearTotals(sec, t, totals, totalRow, yearCols)
	partials := w.partialSums(sec, totalRow, yearCols)

	refYear := yearCols[0].year
	refTotal, hasRef := yearTotals[refYear]
	if len(yearTotals) < 2 || !hasRef || refTotal <= 0 {
		return nil
	}

	latestYear := yearCols[len(yearCols)-1].year
	for _, yc := range yearCols[1:] {
		if yc.year == latestYear {
			cur, hasCur := partials[yc.year]
			prev, hasPrev := partials[yc.year-1]
			if hasCur && hasPrev && prev > 0 {
				pct := (cur - prev) / prev * 100
				value := fmt.Sprintf("%.2f%% (till Aug)", pct)
				if err := w.grid.SetCell(changeRow, yc.col, value); err != nil {
					return err
				}
				continue
			}
		}
		total, has := yearTotals[yc.year]
		if !has {
			continue
		}
		pct := (total - refTotal) / refTotal * 100
		if err := w.grid.SetCell(changeRow, yc.col, fmt.Sprintf("%.2f%%", pct)); err != nil {
			return err
		}
	}
	return nil
}

// collectYearColumns finds the physical year-bearing columns across the
// section span, metric columns excluded, ordered by year ascending.
func (w *Writer) collectYearColumns(sec Section) []yearColumn {
	var cols []yearColumn
	for col := totalScanStartColumn; col <= sectionSpanEndColumn; col++ {
		header := strings.ToLower(strings.TrimSpace(w.grid.Cell(sec.HeaderRow, col)))
		if header == "" || isMetricHeader(header) {
			continue
		}
		if year := headerYear(header); year != 0 {
			cols = append(cols, yearColumn{col: col, year: year})
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].year < cols[j].year })
	return cols
}

// yearTotals resolves each year's full total: the Total row's evaluated
// cell when it parses, else the pre-computed aggregate for 2024/2025,
// else a re-sum of the table's matching column. Non-positive totals are
// dropped.
func (w *Writer) yearTotals(sec Section, t *Table, totals Totals, totalRow int, yearCols []yearColumn) map[int]float64 {
	resolved := make(map[int]float64)
	for _, yc := range yearCols {
		if v, ok := w.numericValue(totalRow, yc.col); ok && v > 0 {
			resolved[yc.year] = v
			continue
		}
		if totals.Valid {
			switch yc.year {
			case 2024:
				if totals.Y2024 > 0 {
					resolved[yc.year] = totals.Y2024
				}
				continue
			case 2025:
				if totals.Y2025 > 0 {
					resolved[yc.year] = totals.Y2025
				}
				continue
			}
		}
		if v, ok := w.resumTableColumn(sec, t, yc.col); ok && v > 0 {
			resolved[yc.year] = v
		}
	}
	return resolved
}

// resumTableColumn sums the table column aligned with a physical grid
// column over every retained row.
func (w *Writer) resumTableColumn(sec Section, t *Table, physCol int) (float64, bool) {
	header := strings.ToLower(strings.TrimSpace(w.grid.Cell(sec.HeaderRow, physCol)))
	colIdx, ok := t.columnByHeader(header)
	if !ok {
		return 0, false
	}
	var sum float64
	for i := range t.Rows {
		if v, vok := parseNumeric(t.CellText(i, colIdx)); vok {
			sum += v
		}
	}
	return sum, true
}

// partialSums accumulates each year's January-August months from the
// rows above the Total row, keyed by year. Years with no positive
// partial are absent from the result.
func (w *Writer) partialSums(sec Section, totalRow int, yearCols []yearColumn) map[int]float64 {
	partials := make(map[int]float64)
	for _, yc := range yearCols {
		var sum float64
		for row := sec.DataStartRow; row < totalRow; row++ {
			monthCell := strings.ToLower(strings.TrimSpace(w.grid.Cell(row, firstDataColumn)))
			if monthCell == "" || !isFirstEightMonth(monthCell) {
				continue
			}
			if v, ok := w.numericValue(row, yc.col); ok {
				sum += v
			}
		}
		if sum > 0 {
			partials[yc.year] = sum
		}
	}
	return partials
}

func isFirstEightMonth(lowerMonth string) bool {
	for _, m := range firstEightMonths {
		if strings.Contains(lowerMonth, m) {
			return true
		}
	}
	return false
}

// WriteNarrative places the narrative block in the section's narrative
// column: a bold header one row above the data span, then the text in a
// cell merged across the table's row span, styled and colored by
// sentiment keywords in the text.
func (w *Writer) WriteNarrative(ctx context.Context, sec Section, t *Table, cols OutputColumns, text string) error {
	logger := infrastructure.LoggerFromContext(ctx)
	col := cols.Narrative

	if err := w.grid.SetColumnWidth(col, narrativeColumnWidth); err != nil {
		return err
	}

	headerRow := sec.DataStartRow - 1
	if err := w.grid.SetCell(headerRow, col, narrativeHeader); err != nil {
		return err
	}
	if err := w.grid.SetCellStyle(headerRow, col, grid.CellStyle{
		FontName:   narrativeFontName,
		FontSize:   narrativeFontSize,
		Bold:       true,
		Horizontal: "left",
		Vertical:   "top",
	}); err != nil {
		return err
	}

	endRow := sec.DataStartRow + len(t.Rows) - 1
	if endRow > sec.DataStartRow {
		if err := w.grid.MergeRows(col, sec.DataStartRow, endRow); err != nil {
			logger.WarnContext(ctx, "narrative merge failed",
				slog.String("section", sec.Name),
				slog.String("error", err.Error()))
		}
	}

	if err := w.grid.SetCell(sec.DataStartRow, col, text); err != nil {
		return err
	}
	return w.grid.SetCellStyle(sec.DataStartRow, col, grid.CellStyle{
		FontName:    narrativeFontName,
		FontSize:    narrativeFontSize,
		FontColor:   narrativeColor(text),
		BorderColor: narrativeBorderColor,
		Horizontal:  "left",
		Vertical:    "top",
		WrapText:    true,
	})
}

// narrativeColor picks the font color from sentiment keywords; growth
// wins when both appear.
func narrativeColor(text string) string {
	switch {
	case upwardPattern.MatchString(text):
		return colorUpward
	case declinedPattern.MatchString(text):
		return colorDeclined
	default:
		return colorNeutral
	}
}
