package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_ResolveOutputColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    OutputColumns
	}{
		{
			name:    "both metric columns",
			headers: []string{"Traffic", "Month", "Year-2024", "Year-2025", "YOY % (2024 vs 2025)", "LM % (2025)"},
			want:    OutputColumns{YOY: 5, LM: 6, Narrative: 8},
		},
		{
			name:    "yoy only",
			headers: []string{"Traffic", "Month", "Year-2024", "Year-2025", "YOY % (2024 vs 2025)"},
			want:    OutputColumns{YOY: 5, Narrative: 8},
		},
		{
			name:    "neither falls back",
			headers: []string{"Traffic", "Month", "Year-2024", "Year-2025"},
			want:    OutputColumns{Narrative: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGrid()
			g.putRow(1, tt.headers...)

			got := NewWriter(g, nil).ResolveOutputColumns(Section{HeaderRow: 1})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_WriteMetrics(t *testing.T) {
	g := newFakeGrid()
	sec := seedTrafficSection(g)
	g.put(3, 6, "stale yoy") // pre-existing content under an absent metric

	table := Extract(context.Background(), g, sec)
	metrics := Metrics{
		YOY: []Percent{{Value: 10, Valid: true}, {}, {}},
		LM:  []Percent{{}, {Value: -18.18, Valid: true}, {}},
	}
	cols := NewWriter(g, nil).ResolveOutputColumns(sec)
	require.NoError(t, NewWriter(g, nil).WriteMetrics(context.Background(), sec, table, metrics, cols))

	assert.Equal(t, "10.00%", g.Cell(2, 6))
	assert.Equal(t, "-18.18%", g.Cell(3, 7))
	assert.Equal(t, "stale yoy", g.Cell(3, 6), "absence never blanks pre-existing cells")
	assert.Equal(t, "", g.Cell(4, 6), "total row untouched")
}

func TestWriter_RecomputeTotalRow(t *testing.T) {
	g := newFakeGrid()
	sec := seedTrafficSection(g)
	g.put(4, 4, "999") // stale total
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputeTotalRow(context.Background(), sec, table))

	assert.Equal(t, "60", g.Cell(4, 3))
	assert.Equal(t, "80", g.Cell(4, 4), "stale total replaced by the month sum")
	assert.Equal(t, "80", g.Cell(4, 5))
}

func TestWriter_RecomputeTotalRow_SkipsZeroSumColumns(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2024", "Year-2025")
	g.putRow(2, "", "January", "0", "44")
	g.putRow(3, "", "Total", "777", "44")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 3}
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputeTotalRow(context.Background(), sec, table))

	assert.Equal(t, "777", g.Cell(3, 3), "zero sums leave the existing cell alone")
	assert.Equal(t, "44", g.Cell(3, 4))
}

func TestWriter_RecomputeTotalRow_SumsOnlyMonthRows(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2024", "Year-2025")
	g.putRow(2, "", "January", "10", "11")
	g.putRow(3, "", "Total Visits", "100", "100")
	g.putRow(4, "", "Total", "999", "999")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 4}
	table := Extract(context.Background(), g, sec)
	require.Equal(t, RowOther, table.Rows[1].Kind, `"visits" exempts the row from total classification`)

	require.NoError(t, NewWriter(g, nil).RecomputeTotalRow(context.Background(), sec, table))

	assert.Equal(t, "10", g.Cell(4, 3), "non-month rows stay out of the recomputed total")
	assert.Equal(t, "11", g.Cell(4, 4))
}

func TestWriter_RecomputeTotalRow_AbortsWithOneYearColumn(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2025")
	g.putRow(2, "", "January", "30")
	g.putRow(3, "", "Total", "999")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 3}
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputeTotalRow(context.Background(), sec, table))

	assert.Equal(t, "999", g.Cell(3, 3), "a single year column performs no total write")
}

func TestWriter_RecomputeTotalRow_NoTotalRow(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2025")
	g.putRow(2, "", "January", "44")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 2}
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputeTotalRow(context.Background(), sec, table))

	assert.Equal(t, "44", g.Cell(2, 3), "sheet untouched")
}

func TestWriter_RecomputePercentChangeRow(t *testing.T) {
	g := newFakeGrid()
	sec := seedTrafficSection(g)
	g.put(5, 4, "stale")
	g.put(5, 19, "stale far right")
	table := Extract(context.Background(), g, sec)
	_, totals := NewEngine().Compute(context.Background(), table)

	w := NewWriter(g, nil)
	require.NoError(t, w.RecomputePercentChangeRow(context.Background(), sec, table, totals))

	assert.Equal(t, "% Change", g.Cell(5, 2))
	assert.Equal(t, "", g.Cell(5, 3), "reference year column stays blank")
	assert.Equal(t, "33.33%", g.Cell(5, 4), "2024 versus the 2023 reference total")
	assert.Equal(t, "0.00% (till Aug)", g.Cell(5, 5), "latest year compares partial periods")
	assert.Equal(t, "", g.Cell(5, 6), "yoy output column stays blank")
	assert.Equal(t, "", g.Cell(5, 19), "stale content across the span cleared")

	// Idempotent: a second run reproduces the same row.
	require.NoError(t, w.RecomputePercentChangeRow(context.Background(), sec, table, totals))
	assert.Equal(t, "33.33%", g.Cell(5, 4))
	assert.Equal(t, "0.00% (till Aug)", g.Cell(5, 5))
}

func TestWriter_RecomputePercentChangeRow_PrefersSnapshotTotals(t *testing.T) {
	g := newFakeGrid()
	sec := seedTrafficSection(g)
	// The grid's total cells hold formula text; only the snapshot has the
	// evaluated numbers.
	g.put(4, 3, "=SUM(C2:C3)")
	g.put(4, 4, "=SUM(D2:D3)")
	g.put(4, 5, "=SUM(E2:E3)")
	source := fakeSource{
		{4, 3}: "60",
		{4, 4}: "80",
		{4, 5}: "80",
	}
	table := Extract(context.Background(), g, sec)
	_, totals := NewEngine().Compute(context.Background(), table)

	require.NoError(t, NewWriter(g, source).RecomputePercentChangeRow(context.Background(), sec, table, totals))

	assert.Equal(t, "33.33%", g.Cell(5, 4))
	assert.Equal(t, "0.00% (till Aug)", g.Cell(5, 5))
}

func TestWriter_RecomputePercentChangeRow_AbortsWithOneYearColumn(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2025")
	g.putRow(2, "", "January", "44")
	g.putRow(3, "", "Total", "44")
	g.putRow(4, "", "% Change", "stale")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 4}
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputePercentChangeRow(context.Background(), sec, table, Totals{}))

	// The row is cleared and relabeled before the year check aborts.
	assert.Equal(t, "% Change", g.Cell(4, 2))
	assert.Equal(t, "", g.Cell(4, 3))
}

func TestWriter_RecomputePercentChangeRow_MissingRows(t *testing.T) {
	g := newFakeGrid()
	g.putRow(1, "Traffic", "Month", "Year-2024", "Year-2025")
	g.putRow(2, "", "January", "40", "44")
	sec := Section{Name: "Traffic", HeaderRow: 1, DataStartRow: 2, DataEndRow: 2}
	table := Extract(context.Background(), g, sec)

	require.NoError(t, NewWriter(g, nil).RecomputePercentChangeRow(context.Background(), sec, table, Totals{}))

	assert.Equal(t, "January", g.Cell(2, 2), "no total or % change row: nothing rewritten")
}

func TestWriter_WriteNarrative(t *testing.T) {
	g := newFakeGrid()
	sec := seedTrafficSection(g)
	table := Extract(context.Background(), g, sec)
	cols := NewWriter(g, nil).ResolveOutputColumns(sec)
	require.Equal(t, 9, cols.Narrative, "two right of the last-month column")

	text := "Traffic shows a steady upward trend across the period."
	require.NoError(t, NewWriter(g, nil).WriteNarrative(context.Background(), sec, table, cols, text))

	assert.Equal(t, "Summary / Insights :", g.Cell(1, 9))
	header := g.styles[[2]int{1, 9}]
	assert.True(t, header.Bold)
	assert.Equal(t, "Century Gothic", header.FontName)

	assert.Equal(t, text, g.Cell(2, 9))
	assert.True(t, containsMerge(g.merges, "col=9 rows=2-4"), "merged across the table's row span")
	assert.Equal(t, 60.0, g.widths[9])

	body := g.styles[[2]int{2, 9}]
	assert.Equal(t, "00B050", body.FontColor)
	assert.Equal(t, "D3D3D3", body.BorderColor)
	assert.True(t, body.WrapText)
}

func TestNarrativeColor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "upward", text: "a clear upward movement", want: "00B050"},
		{name: "declined", text: "sessions declined sharply", want: "22577A"},
		{name: "decline word form", text: "a gradual decline", want: "22577A"},
		{name: "growth wins over decline", text: "upward overall though March declined", want: "00B050"},
		{name: "substring does not match", text: "the roadway upwardly curved", want: "000000"},
		{name: "neutral", text: "mixed results across channels", want: "000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, narrativeColor(tt.text))
		})
	}
}
