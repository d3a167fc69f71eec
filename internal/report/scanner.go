package report

import (
	"context"
	"log/slog"
	"strings"

	"trafficpulse/internal/infrastructure"
)

// Scan walks the sheet once and returns every section in row order. A
// section starts where the label column carries a non-reserved name and
// the adjacent cell reads "Month" (any casing). Each section's data span
// runs from the row after its header to the row before the next header,
// or to the last used row for the final section.
func Scan(ctx context.Context, g Surface) []Section {
	logger := infrastructure.LoggerFromContext(ctx)

	maxRow := g.MaxRow()
	var sections []Section
	for row := 1; row <= maxRow; row++ {
		label := strings.TrimSpace(g.Cell(row, labelColumn))
		if label == "" || isReservedLabel(label) {
			continue
		}
		marker := strings.TrimSpace(g.Cell(row, firstDataColumn))
		if !strings.EqualFold(marker, monthMarkerLabel) {
			continue
		}
		sections = append(sections, Section{
			Name:         label,
			HeaderRow:    row,
			DataStartRow: row + 1,
		})
	}

	for i := range sections {
		if i < len(sections)-1 {
			sections[i].DataEndRow = sections[i+1].HeaderRow - 1
		} else {
			sections[i].DataEndRow = maxRow
		}
	}

	logger.InfoContext(ctx, "section scan complete",
		slog.Int("sections", len(sections)),
		slog.Int("max_row", maxRow))
	return sections
}
