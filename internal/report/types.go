package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"trafficpulse/internal/grid"
)

// Surface is the cell-grid capability the report engine reads and writes.
// Coordinates are 1-indexed. *grid.Workbook implements it.
type Surface interface {
	MaxRow() int
	RowWidth(row int) int
	Cell(row, col int) string
	SetCell(row, col int, value interface{}) error
	ClearCell(row, col int) error
	MergeRows(col, startRow, endRow int) error
	SetColumnWidth(col int, width float64) error
	SetCellStyle(row, col int, style grid.CellStyle) error
}

// ValueSource provides formula-resolved reads from the snapshot captured
// before section processing started. *grid.Snapshot implements it.
type ValueSource interface {
	Value(row, col int) string
}

const (
	// labelColumn holds section names; data columns start one past it.
	labelColumn      = 1
	firstDataColumn  = 2
	monthMarkerLabel = "month"

	// fallbackNarrativeColumn is used when neither metric column resolves.
	fallbackNarrativeColumn = 8
)

// Section is one independently-headered monthly-data block in the sheet.
type Section struct {
	Name         string
	HeaderRow    int
	DataStartRow int
	DataEndRow   int
}

// RowKind classifies a retained table row. It is computed once at
// extraction and carried with the row.
type RowKind int

const (
	// RowOther is a retained row that is neither a month nor a total.
	RowOther RowKind = iota
	// RowMonth is a calendar-month data row.
	RowMonth
	// RowTotal is the section's aggregate row.
	RowTotal
)

// Row is one retained data row. Cells are raw text aligned with the
// table's labels; Month is 1..12 for RowMonth rows, 0 otherwise.
type Row struct {
	Kind  RowKind
	Month int
	Cells []string
}

// First returns the row's first field, trimmed.
func (r Row) First() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Cells[0])
}

// Table is the materialized view of one section: ordered rows with
// labels derived from the header row. % Change rows never appear here.
type Table struct {
	Labels []string
	Rows   []Row
}

// CellText returns the trimmed text of row rowIdx in column colIdx
// (both 0-indexed into the table).
func (t *Table) CellText(rowIdx, colIdx int) string {
	if rowIdx < 0 || rowIdx >= len(t.Rows) {
		return ""
	}
	row := t.Rows[rowIdx]
	if colIdx < 0 || colIdx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[colIdx])
}

// Percent is a computed percentage or the explicit absence-marker
// (Valid == false), never NaN or infinite.
type Percent struct {
	Value float64
	Valid bool
}

// String formats the percentage the way it is written into the sheet.
func (p Percent) String() string {
	if !p.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

// Metrics holds the computed per-row percentages, aligned by index with
// the table's rows.
type Metrics struct {
	YOY []Percent
	LM  []Percent
}

// HasAny reports whether any row produced a computed value.
func (m Metrics) HasAny() bool {
	for _, p := range m.YOY {
		if p.Valid {
			return true
		}
	}
	for _, p := range m.LM {
		if p.Valid {
			return true
		}
	}
	return false
}

// Totals is the aggregate metadata computed alongside the per-row
// metrics. Sums cover every retained row; de-duplicating the Total row
// is the writer's responsibility.
type Totals struct {
	Y2024 float64
	Y2025 float64
	Valid bool
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// firstEightMonths are the substrings that identify the partial-period
// (January through August) rows for the % Change comparison.
var firstEightMonths = []string{"jan", "feb", "march", "april", "may", "june", "july", "aug"}

// reservedLabels are label-column words that never start a section.
var reservedLabels = map[string]struct{}{
	"month":    {},
	"total":    {},
	"% change": {},
	"%change":  {},
}

func isReservedLabel(label string) bool {
	_, ok := reservedLabels[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

func isPercentChangeText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "% change") || strings.Contains(lower, "%change")
}

func isTotalText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "total") && !strings.Contains(lower, "visits")
}

// classifyRow derives the row kind from the first field text. Kinds are
// mutually exclusive; the month number accompanies RowMonth.
func classifyRow(first string) (RowKind, int) {
	trimmed := strings.ToLower(strings.TrimSpace(first))
	for i, name := range monthNames {
		if trimmed == name {
			return RowMonth, i + 1
		}
	}
	if isTotalText(trimmed) {
		return RowTotal, 0
	}
	return RowOther, 0
}

// parseNumeric converts cell text to a finite float. Thousands
// separators are tolerated; anything else non-numeric reports false.
func parseNumeric(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// guardedPercent applies the shared percentage rule: the result is the
// absence-marker unless the previous value is present and strictly
// positive, the current value is present, and the arithmetic is finite.
func guardedPercent(current float64, curOK bool, previous float64, prevOK bool) Percent {
	if !prevOK || previous <= 0 || !curOK {
		return Percent{}
	}
	pct := (current - previous) / previous * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return Percent{}
	}
	return Percent{Value: round2(pct), Valid: true}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
