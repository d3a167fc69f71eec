package grid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestWorkbook(t *testing.T) *Workbook {
	t.Helper()
	f := excelize.NewFile()
	w := NewWorkbook(f, "")
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWorkbook_CellRoundTrip(t *testing.T) {
	w := newTestWorkbook(t)

	require.NoError(t, w.SetCell(3, 2, "Month"))
	require.NoError(t, w.SetCell(4, 2, 1500))

	assert.Equal(t, "Month", w.Cell(3, 2))
	assert.Equal(t, "1500", w.Cell(4, 2))
	assert.Equal(t, "", w.Cell(100, 100))
}

func TestWorkbook_ClearCell(t *testing.T) {
	w := newTestWorkbook(t)

	require.NoError(t, w.SetCell(2, 2, "stale"))
	require.NoError(t, w.ClearCell(2, 2))

	assert.Equal(t, "", w.Cell(2, 2))
}

func TestWorkbook_MaxRow(t *testing.T) {
	w := newTestWorkbook(t)
	assert.Equal(t, 0, w.MaxRow())

	require.NoError(t, w.SetCell(7, 1, "last"))
	assert.Equal(t, 7, w.MaxRow())
}

func TestWorkbook_RowWidth(t *testing.T) {
	w := newTestWorkbook(t)

	require.NoError(t, w.SetCell(3, 1, "Sessions"))
	require.NoError(t, w.SetCell(3, 5, "Year-2025"))

	assert.Equal(t, 5, w.RowWidth(3))
	assert.Equal(t, 0, w.RowWidth(99))
}

func TestWorkbook_MergeAndStyle(t *testing.T) {
	w := newTestWorkbook(t)

	require.NoError(t, w.SetCell(2, 8, "summary text"))
	require.NoError(t, w.MergeRows(8, 2, 10))
	require.NoError(t, w.SetColumnWidth(8, 60))
	require.NoError(t, w.SetCellStyle(2, 8, CellStyle{
		FontName:    "Century Gothic",
		FontSize:    12,
		FontColor:   "00B050",
		BorderColor: "D3D3D3",
		Horizontal:  "left",
		Vertical:    "top",
		WrapText:    true,
	}))

	// Merged range still reads back through its top-left cell.
	assert.Equal(t, "summary text", w.Cell(2, 8))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	assert.Error(t, err)
}

func TestOpen_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wb.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Open(path, "NoSuchSheet")
	assert.Error(t, err)

	w, err := Open(path, "")
	require.NoError(t, err)
	assert.NotEmpty(t, w.Sheet())
	w.Close()
}

func TestSnapshot_ResolvesFormulas(t *testing.T) {
	w := newTestWorkbook(t)

	require.NoError(t, w.SetCell(1, 1, 40))
	require.NoError(t, w.SetCell(2, 1, 60))
	require.NoError(t, w.file.SetCellFormula(w.Sheet(), "A3", "SUM(A1:A2)"))

	snap, err := w.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "40", snap.Value(1, 1))
	assert.Equal(t, "100", snap.Value(3, 1))
	assert.Equal(t, "", snap.Value(50, 50))

	// Snapshot is immutable: later writes don't show through.
	require.NoError(t, w.SetCell(1, 1, 999))
	assert.Equal(t, "40", snap.Value(1, 1))
}

func TestSnapshot_NilSafe(t *testing.T) {
	var snap *Snapshot
	assert.Equal(t, "", snap.Value(1, 1))
}
