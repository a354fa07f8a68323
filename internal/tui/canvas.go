package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/retype/internal/render"
)

var styles = [render.NumStyles]lipgloss.Style{
	render.StyleNormal: lipgloss.NewStyle(),
	render.StyleBold:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")),
	render.StyleDim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	render.StyleError:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#FF4D4F")),
	render.StyleHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#1F8A99")),
	render.StyleTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#2F5DA8")),
	render.StyleResult: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#9B3FA8")),
	render.StyleTime:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A8F4A")),
	render.StyleKey:    lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#F0F0F0")),
	render.StyleStatus: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
}

type cell struct {
	r     rune
	style render.Style
	// wide marks the right half of a double-width rune.
	wide bool
}

// Canvas is a cell grid implementing render.Renderer. Flush turns the grid
// into the string Bubble Tea prints.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	frame  string
}

// NewCanvas returns a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the grid and blanks it.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.cells = make([][]cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.width)
	}
	c.Clear()
}

// Clear implements render.Renderer.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Draw implements render.Renderer. Text running past the right edge is cut.
func (c *Canvas) Draw(pos render.Position, text string, style render.Style) {
	if pos.Row < 0 || pos.Row >= c.height || pos.Col < 0 {
		return
	}
	if !style.Valid() {
		style = render.StyleNormal
	}
	row := c.cells[pos.Row]
	col := pos.Col
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > c.width {
			return
		}
		row[col] = cell{r: r, style: style}
		if w == 2 {
			row[col+1] = cell{style: style, wide: true}
		}
		col += w
	}
}

// Flush implements render.Renderer.
func (c *Canvas) Flush() {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			var run strings.Builder
			for ; x < len(row) && row[x].style == style; x++ {
				if !row[x].wide {
					run.WriteRune(row[x].r)
				}
			}
			b.WriteString(styles[style].Render(run.String()))
		}
		lines[y] = b.String()
	}
	c.frame = strings.Join(lines, "\n")
}

// String returns the last flushed frame.
func (c *Canvas) String() string {
	return c.frame
}

// Text returns the grid without styling, one line per row.
func (c *Canvas) Text() []string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			if !cl.wide {
				b.WriteRune(cl.r)
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// StyleAt returns the style of a cell.
func (c *Canvas) StyleAt(row, col int) render.Style {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return render.StyleNormal
	}
	return c.cells[row][col].style
}
