package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wpmtest/internal/model"
)

// RenderRounds prints one aligned row per completed round.
func RenderRounds(w io.Writer, rounds []model.RoundResult) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No completed rounds.")
		return err
	}
	headers := []string{"Round", "WPM", "Accuracy", "Correct", "Time"}
	rows := make([][]string, 0, len(rounds))
	for _, r := range rounds {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Index),
			fmt.Sprintf("%.2f", r.WPM),
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
			r.Duration.Round(100 * time.Millisecond).String(),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RoundWPMs extracts the per-round WPM series.
func RoundWPMs(rounds []model.RoundResult) []float64 {
	out := make([]float64, len(rounds))
	for i, r := range rounds {
		out[i] = r.WPM
	}
	return out
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, widths[i], rightAlignCols[i])
	}
	return strings.Join(cells, "  ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
