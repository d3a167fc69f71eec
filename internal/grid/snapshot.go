package grid

import (
	"github.com/xuri/excelize/v2"
)

// Snapshot is a point-in-time copy of the sheet with formulas resolved.
// It is captured once, before any section is processed, so every consumer
// sees the same evaluated view regardless of writes made later in the run.
type Snapshot struct {
	values [][]string
}

// Snapshot captures the evaluated view of the active sheet. Cells holding
// formulas are resolved through the calculation engine; cells whose
// formulas cannot be evaluated keep their raw (cached) text.
func (w *Workbook) Snapshot() (*Snapshot, error) {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return nil, err
	}

	values := make([][]string, len(rows))
	for r, row := range rows {
		values[r] = make([]string, len(row))
		copy(values[r], row)
		for c := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			formula, err := w.file.GetCellFormula(w.sheet, name)
			if err != nil || formula == "" {
				continue
			}
			if calc, err := w.file.CalcCellValue(w.sheet, name); err == nil && calc != "" {
				values[r][c] = calc
			}
		}
	}

	return &Snapshot{values: values}, nil
}

// Value returns the evaluated text at 1-indexed (row, col); empty string
// outside the captured range.
func (s *Snapshot) Value(row, col int) string {
	if s == nil || row < 1 || col < 1 || row > len(s.values) {
		return ""
	}
	r := s.values[row-1]
	if col > len(r) {
		return ""
	}
	return r[col-1]
}
