package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	fallbackWidth      = 80
	chartColor         = "\x1b[36m"
	colorReset         = "\x1b[0m"
)

// ChartWidthFor returns the plot width that fits a terminal of totalWidth
// columns next to the axis labels.
func ChartWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minChartWidth
	}
	return max(totalWidth-labelWidth-3, minChartWidth)
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// UseColor reports whether w is a terminal and NO_COLOR is unset.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RenderChart draws values as a braille line chart with min and max labels.
// Each character cell holds 2x4 dots. Zero width or height picks a default.
func RenderChart(w io.Writer, title string, values []float64, width, height int, color bool) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	lo, hi := minMax(values)
	top, bottom := fmt.Sprintf("%.1f", hi), fmt.Sprintf("%.1f", lo)
	labelWidth := max(len(top), len(bottom))
	if width <= 0 {
		width = ChartWidthFor(TerminalWidth(), labelWidth)
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}

	dotsX, dotsY := width*2, height*4
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	points := resample(values, dotsX)
	prevY := -1
	for x, v := range points {
		y := int((1 - (v-lo)/(hi-lo)) * float64(dotsY-1))
		y = max(0, min(y, dotsY-1))
		from, to := y, y
		if prevY >= 0 {
			from, to = min(prevY, y), max(prevY, y)
		}
		for dy := from; dy <= to; dy++ {
			cells[dy/4][x/2] |= dotMask(x%2, dy%4)
		}
		prevY = y
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s │ ", labelWidth, label)
		if color {
			b.WriteString(chartColor)
		}
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		if color {
			b.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// resample stretches or averages values onto n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > n {
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// dotMask maps a dot inside a 2x4 braille cell to its bit.
func dotMask(x, y int) uint8 {
	if y == 3 {
		return [2]uint8{0x40, 0x80}[x]
	}
	return uint8(1) << (uint(y) + 3*uint(x))
}
