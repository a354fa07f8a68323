// Package render paints a session through a small set of draw commands.
package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/retype/internal/metrics"
	"github.com/verte-zerg/retype/internal/session"
)

// Style is the closed set of looks a renderer must support.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleDim
	StyleError
	StyleHeader
	StyleTitle
	StyleResult
	StyleTime
	StyleKey
	StyleStatus

	// NumStyles is the number of styles; renderers size their tables by it.
	NumStyles = int(StyleStatus) + 1
)

var styleNames = [NumStyles]string{
	StyleNormal: "normal",
	StyleBold:   "bold",
	StyleDim:    "dim",
	StyleError:  "error",
	StyleHeader: "header",
	StyleTitle:  "title",
	StyleResult: "result",
	StyleTime:   "time",
	StyleKey:    "key",
	StyleStatus: "status",
}

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Valid reports whether s is one of the declared styles.
func (s Style) Valid() bool {
	return s >= 0 && int(s) < NumStyles
}

// Position is a zero-based cell on the screen.
type Position struct {
	Row int
	Col int
}

// Renderer receives draw commands. Nothing is visible before Flush.
type Renderer interface {
	Clear()
	Draw(pos Position, text string, style Style)
	Flush()
}

// Title is shown centred on the header row.
const Title = " RETYPE "

// TextRow is the first row of the reference text.
const TextRow = 2

// Frame is everything painted in one pass.
type Frame struct {
	View    session.View
	LiveWPM float64
	// Last is the result of the run being replayed, shown in the stats bar.
	Last   *metrics.Result
	Status string
}

// Paint draws a full frame and flushes it.
func Paint(r Renderer, f Frame) {
	v := f.View
	r.Clear()
	paintHeader(r, v, f.LiveWPM)
	paintText(r, v)

	switch {
	case v.Mode == session.ModeFinished:
		paintMistyped(r, v)
		paintResult(r, v)
		if !v.Replay {
			paintHints(r, v.TextRows)
		}
		paintStats(r, v.Height, v.Result)
	default:
		style := StyleNormal
		if v.AtLimit {
			style = StyleError
		}
		r.Draw(Position{Row: v.TextRows}, v.CurrentWord, style)
		if v.Replay {
			line := writer{r: r, pos: Position{Row: v.TextRows + 2, Col: 1}}
			line.put(" REPLAY ", StyleKey)
			line.put(" press ", StyleNormal)
			line.put(" Esc ", StyleKey)
			line.put(" to stop.", StyleNormal)
		}
		if f.Last != nil {
			paintStats(r, v.Height, *f.Last)
		}
	}

	if f.Status != "" && v.Height >= 2 {
		r.Draw(Position{Row: v.Height - 2}, truncate(f.Status, v.Width), StyleStatus)
	}
	r.Flush()
}

func paintHeader(r Renderer, v session.View, wpm float64) {
	r.Draw(Position{}, truncate(fmt.Sprintf(" ID:%s ", v.TextID), v.Width/2-4), StyleHeader)
	r.Draw(Position{Col: max(v.Width/2-4, 0)}, Title, StyleTitle)
	r.Draw(Position{Col: max(v.Width-14, 0)}, fmt.Sprintf("%.2f WPM ", wpm), StyleHeader)
}

// paintText draws the text bold, the typed part dim and the span after the
// first mismatch in the error style.
func paintText(r Renderer, v session.View) {
	typed := min(v.Typed, len(v.Wrapped))
	span(r, v, 0, len(v.Wrapped), StyleBold)
	span(r, v, 0, typed, StyleDim)
	if v.DiffIndex < typed {
		span(r, v, v.DiffIndex, typed, StyleError)
	}
}

func paintMistyped(r Renderer, v session.View) {
	for _, pos := range v.Mistyped {
		if pos < len(v.Wrapped) {
			span(r, v, pos, pos+1, StyleError)
		}
	}
}

func paintResult(r Renderer, v session.View) {
	line := writer{r: r, pos: Position{Row: v.TextRows}}
	line.put(" Your typing speed is ", StyleNormal)
	line.put(fmt.Sprintf(" %.2f ", v.Result.WPM), StyleResult)
	line.put(" WPM ", StyleNormal)
}

func paintHints(r Renderer, row int) {
	line := writer{r: r, pos: Position{Row: row + 2, Col: 1}}
	line.put(" Enter ", StyleKey)
	line.put(" to see replay, ", StyleNormal)
	line.put(" Tab ", StyleKey)
	line.put(" to retry.", StyleNormal)

	line = writer{r: r, pos: Position{Row: row + 3, Col: 1}}
	line.put(" Arrow keys ", StyleKey)
	line.put(" to change text.", StyleNormal)

	line = writer{r: r, pos: Position{Row: row + 4, Col: 1}}
	line.put(" Esc ", StyleKey)
	line.put(" to quit.", StyleNormal)
}

func paintStats(r Renderer, height int, res metrics.Result) {
	line := writer{r: r, pos: Position{Row: height - 1}}
	line.put(fmt.Sprintf(" WPM: %.2f ", res.WPM), StyleResult)
	line.put(fmt.Sprintf(" Time: %.2fs ", res.Seconds()), StyleTime)
	line.put(fmt.Sprintf(" Accuracy: %.2f%% ", res.Accuracy), StyleHeader)
}

// span draws wrapped[from:to], splitting it at row boundaries.
func span(r Renderer, v session.View, from, to int, style Style) {
	if v.Width <= 0 {
		return
	}
	for from < to {
		row := from / v.Width
		end := min((row+1)*v.Width, to)
		r.Draw(Position{Row: TextRow + row, Col: from % v.Width}, string(v.Wrapped[from:end]), style)
		from = end
	}
}

// writer appends segments left to right on one row.
type writer struct {
	r   Renderer
	pos Position
}

func (w *writer) put(text string, style Style) {
	w.r.Draw(w.pos, text, style)
	w.pos.Col += runewidth.StringWidth(text)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
