package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel frames lines with the current theme's border.
func Panel(lines []string) string {
	t := current
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// ProgressBar renders a bar with a done/total suffix.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 0 {
		width = 28
	}
	filled := min(int(float64(done)/float64(total)*float64(width)), width)
	filled = max(filled, 0)
	return "[" + strings.Repeat(current.BarFull, filled) + strings.Repeat(current.BarEmpty, width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

// BarChart draws bars scaled to the largest value.
func BarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return current.Muted.Render("No data")
	}
	if width <= 0 {
		width = 30
	}
	labelW, top := 0, 0
	for _, b := range bars {
		labelW = max(labelW, ansi.StringWidth(b.Label))
		top = max(top, b.Value)
	}
	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if top > 0 {
			n = b.Value * width / top
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		label := b.Label + strings.Repeat(" ", labelW-ansi.StringWidth(b.Label))
		fmt.Fprintf(&sb, "%s %s %d", current.Muted.Render(label), current.Accent.Render(strings.Repeat(current.BarFull, n)), b.Value)
		if i < len(bars)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Truncate cuts s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Pad truncates or right-pads s to exactly width cells.
func Pad(s string, width int) string {
	s = Truncate(s, width)
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// Table lays rows out in fixed-width columns. Widths shrink proportionally
// when the total exceeds maxWidth (0 means no limit).
func Table(headers []string, widths []int, rows [][]string, maxWidth int) string {
	widths = fit(widths, maxWidth)
	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			c := ""
			if i < len(cells) {
				c = strings.ReplaceAll(cells[i], "\n", " ")
			}
			parts[i] = Pad(c, w)
		}
		return style.Render(strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	out := []string{line(headers, current.Title)}
	for _, r := range rows {
		out = append(out, line(r, lipgloss.NewStyle()))
	}
	return strings.Join(out, "\n")
}

func fit(widths []int, maxWidth int) []int {
	total := 2 * max(len(widths)-1, 0)
	for _, w := range widths {
		total += w
	}
	if maxWidth <= 0 || total <= maxWidth {
		return widths
	}
	avail := maxWidth - 2*max(len(widths)-1, 0)
	sum := total - 2*max(len(widths)-1, 0)
	out := make([]int, len(widths))
	for i, w := range widths {
		out[i] = max(w*avail/sum, 3)
	}
	return out
}
