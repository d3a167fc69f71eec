// Package grid wraps an excelize workbook behind the small cell-grid
// capability the report engine needs: 1-indexed (row, column) reads and
// writes, merges, column widths, cell styles, and a one-shot snapshot of
// formula-resolved values captured before any section processing begins.
package grid

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "trafficpulse/internal/errors"
)

// Workbook is a single sheet of an open workbook addressed by
// 1-indexed (row, column) coordinates.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// Open opens the workbook at path and selects the named sheet, or the
// first sheet when sheet is empty.
func Open(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", sheet))
	}

	return &Workbook{file: f, sheet: sheet}, nil
}

// NewWorkbook wraps an already-constructed excelize file. Intended for
// tests and callers that build workbooks in memory.
func NewWorkbook(f *excelize.File, sheet string) *Workbook {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	return &Workbook{file: f, sheet: sheet}
}

// Sheet returns the active sheet name.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// MaxRow returns the index of the last row carrying any content.
func (w *Workbook) MaxRow() int {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// RowWidth returns the number of columns the given row occupies in the
// used range; 0 for rows outside it.
func (w *Workbook) RowWidth(row int) int {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil || row < 1 || row > len(rows) {
		return 0
	}
	return len(rows[row-1])
}

// Cell returns the raw text of the cell at (row, col); empty string for
// cells outside the used range.
func (w *Workbook) Cell(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, err := w.file.GetCellValue(w.sheet, name)
	if err != nil {
		return ""
	}
	return v
}

// SetCell writes a value at (row, col).
func (w *Workbook) SetCell(row, col int, value interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return apperrors.NewStorageError("invalid cell coordinates", err).
			WithContext("row", row).WithContext("column", col)
	}
	return w.file.SetCellValue(w.sheet, name, value)
}

// ClearCell blanks the cell at (row, col).
func (w *Workbook) ClearCell(row, col int) error {
	return w.SetCell(row, col, nil)
}

// MergeRows merges the vertical range (startRow..endRow) of one column.
func (w *Workbook) MergeRows(col, startRow, endRow int) error {
	top, err := excelize.CoordinatesToCellName(col, startRow)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col, endRow)
	if err != nil {
		return err
	}
	return w.file.MergeCell(w.sheet, top, bottom)
}

// SetColumnWidth sets the display width of one column.
func (w *Workbook) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return w.file.SetColWidth(w.sheet, name, name, width)
}

// CellStyle describes the font, border and alignment applied to a cell.
// Zero fields are left at the sheet defaults.
type CellStyle struct {
	FontName  string
	FontSize  float64
	Bold      bool
	FontColor string // hex RGB without leading '#'

	// BorderColor, when set, draws a thin border on all four sides
	BorderColor string

	Horizontal string
	Vertical   string
	WrapText   bool
}

// SetCellStyle applies a style to the cell at (row, col).
func (w *Workbook) SetCellStyle(row, col int, style CellStyle) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	spec := &excelize.Style{}
	if style.FontName != "" || style.FontSize > 0 || style.Bold || style.FontColor != "" {
		spec.Font = &excelize.Font{
			Family: style.FontName,
			Size:   style.FontSize,
			Bold:   style.Bold,
			Color:  style.FontColor,
		}
	}
	if style.BorderColor != "" {
		for _, side := range []string{"left", "right", "top", "bottom"} {
			spec.Border = append(spec.Border, excelize.Border{
				Type:  side,
				Style: 1,
				Color: style.BorderColor,
			})
		}
	}
	if style.Horizontal != "" || style.Vertical != "" || style.WrapText {
		spec.Alignment = &excelize.Alignment{
			Horizontal: style.Horizontal,
			Vertical:   style.Vertical,
			WrapText:   style.WrapText,
		}
	}

	styleID, err := w.file.NewStyle(spec)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, name, name, styleID)
}

// Save persists the workbook to path. Called exactly once at run end.
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}
	return nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}
