package report

import (
	"fmt"
	"strings"

	"trafficpulse/internal/grid"
)

// fakeGrid is an in-memory Surface for exercising the scanner, extractor
// and writer without a real workbook.
type fakeGrid struct {
	cells  map[[2]int]string
	styles map[[2]int]grid.CellStyle
	widths map[int]float64
	merges []string
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		cells:  make(map[[2]int]string),
		styles: make(map[[2]int]grid.CellStyle),
		widths: make(map[int]float64),
	}
}

// put seeds a cell; the test-side counterpart of SetCell.
func (g *fakeGrid) put(row, col int, value string) {
	g.cells[[2]int{row, col}] = value
}

func (g *fakeGrid) putRow(row int, values ...string) {
	for i, v := range values {
		if v != "" {
			g.put(row, i+1, v)
		}
	}
}

func (g *fakeGrid) MaxRow() int {
	max := 0
	for key := range g.cells {
		if key[0] > max {
			max = key[0]
		}
	}
	return max
}

func (g *fakeGrid) RowWidth(row int) int {
	width := 0
	for key := range g.cells {
		if key[0] == row && key[1] > width {
			width = key[1]
		}
	}
	return width
}

func (g *fakeGrid) Cell(row, col int) string {
	return g.cells[[2]int{row, col}]
}

func (g *fakeGrid) SetCell(row, col int, value interface{}) error {
	if value == nil {
		delete(g.cells, [2]int{row, col})
		return nil
	}
	g.cells[[2]int{row, col}] = fmt.Sprint(value)
	return nil
}

func (g *fakeGrid) ClearCell(row, col int) error {
	return g.SetCell(row, col, nil)
}

func (g *fakeGrid) MergeRows(col, startRow, endRow int) error {
	g.merges = append(g.merges, fmt.Sprintf("col=%d rows=%d-%d", col, startRow, endRow))
	return nil
}

func (g *fakeGrid) SetColumnWidth(col int, width float64) error {
	g.widths[col] = width
	return nil
}

func (g *fakeGrid) SetCellStyle(row, col int, style grid.CellStyle) error {
	g.styles[[2]int{row, col}] = style
	return nil
}

// fakeSource is a canned ValueSource standing in for the formula
// snapshot.
type fakeSource map[[2]int]string

func (s fakeSource) Value(row, col int) string {
	return s[[2]int{row, col}]
}

// seedTrafficSection lays out one complete section:
//
//	row 1  header: Month | Year-2023 | Year-2024 | Year-2025 | YOY | LM
//	row 2  January   30 | 40 | 44
//	row 3  February  30 | 40 | 36
//	row 4  Total     60 | 80 | 80
//	row 5  % Change
func seedTrafficSection(g *fakeGrid) Section {
	g.putRow(1, "Website Traffic", "Month", "Year-2023", "Year-2024", "Year-2025", "YOY % (2024 vs 2025)", "LM % (2025)")
	g.putRow(2, "", "January", "30", "40", "44")
	g.putRow(3, "", "February", "30", "40", "36")
	g.putRow(4, "", "Total", "60", "80", "80")
	g.putRow(5, "", "% Change")
	return Section{Name: "Website Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 5}
}

// tableFrom builds a Table directly, labels first, then rows as
// pipe-free cell slices.
func tableFrom(labels []string, rows ...[]string) *Table {
	t := &Table{Labels: labels}
	for _, cells := range rows {
		kind, month := classifyRow(cells[0])
		t.Rows = append(t.Rows, Row{Kind: kind, Month: month, Cells: cells})
	}
	return t
}

func containsMerge(merges []string, fragment string) bool {
	for _, m := range merges {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}
