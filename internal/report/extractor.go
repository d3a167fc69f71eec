package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"trafficpulse/internal/infrastructure"
)

// Extract materializes the table for one section. Labels come from the
// header row starting at the first data column; blank header cells get a
// positional placeholder named after the physical column. Row collection
// stops at the first fully blank row even when the declared span extends
// further. Rows with a blank first field and % Change rows are dropped;
// Total rows are retained and tagged.
func Extract(ctx context.Context, g Surface, sec Section) *Table {
	logger := infrastructure.LoggerFromContext(ctx)

	width := g.RowWidth(sec.HeaderRow)
	labels := make([]string, 0, width)
	for col := firstDataColumn; col <= width; col++ {
		text := strings.TrimSpace(g.Cell(sec.HeaderRow, col))
		if text == "" {
			text = fmt.Sprintf("Column_%d", col)
		}
		labels = append(labels, text)
	}

	table := &Table{Labels: labels}
	for row := sec.DataStartRow; row <= sec.DataEndRow; row++ {
		cells := make([]string, len(labels))
		blank := true
		for i := range labels {
			cells[i] = g.Cell(row, firstDataColumn+i)
			if strings.TrimSpace(cells[i]) != "" {
				blank = false
			}
		}
		if blank {
			// Blank row ends the section regardless of the declared span.
			break
		}

		first := strings.TrimSpace(cells[0])
		if first == "" || isPercentChangeText(first) {
			continue
		}

		kind, month := classifyRow(first)
		table.Rows = append(table.Rows, Row{Kind: kind, Month: month, Cells: cells})
	}

	logger.DebugContext(ctx, "section extracted",
		slog.String("section", sec.Name),
		slog.Int("columns", len(table.Labels)),
		slog.Int("rows", len(table.Rows)))
	return table
}
