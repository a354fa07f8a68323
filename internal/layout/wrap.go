// Package layout wraps reference text onto a fixed-width monospace grid.
package layout

import (
	"errors"
	"fmt"
)

// ErrLayout is the parent of every layout failure.
var ErrLayout = errors.New("layout error")

var (
	// ErrInvalidWidth is returned for a non-positive wrap width.
	ErrInvalidWidth = fmt.Errorf("%w: width must be greater than 0", ErrLayout)
	// ErrWordTooLong is returned when a single word does not fit on one line.
	ErrWordTooLong = fmt.Errorf("%w: window too narrow to wrap text", ErrLayout)
	// ErrWindowTooSmall is returned when the wrapped text does not fit the window height.
	ErrWindowTooSmall = fmt.Errorf("%w: window too small to print given text", ErrLayout)
)

// Wrap pads the spaces at wrap points so that every line break falls on a
// multiple of width. The position of rune i on screen is then simply
// (i/width, i%width).
func Wrap(text string, width int) (string, error) {
	if width <= 0 {
		return "", ErrInvalidWidth
	}
	runes := []rune(text)
	// The line count grows with every inserted pad, so it is recomputed each pass.
	for line := 1; line <= LineCount(len(runes), width); line++ {
		next := line * width
		if next >= len(runes) {
			break
		}
		edge := next - 1
		if runes[edge] == ' ' {
			continue
		}
		idx := lastSpaceBefore(runes, edge)
		if idx < (line-1)*width {
			return "", fmt.Errorf("%w (line %d, width %d)", ErrWordTooLong, line, width)
		}
		runes = padAt(runes, idx, next-idx)
	}
	return string(runes), nil
}

// LineCount returns the number of grid lines needed for n runes.
func LineCount(n, width int) int {
	if width <= 0 || n <= 0 {
		return 0
	}
	return (n + width - 1) / width
}

// SpacesAfter counts the run of spaces starting at pos.
func SpacesAfter(wrapped []rune, pos int) int {
	count := 0
	for i := pos; i >= 0 && i < len(wrapped) && wrapped[i] == ' '; i++ {
		count++
	}
	return count
}

// TextRows returns the first row below the text block.
func TextRows(wrapped string, width int) int {
	return LineCount(len([]rune(wrapped)), width) + 3
}

// CheckFit reports whether the wrapped text and the status rows fit in height.
func CheckFit(wrapped string, width, height int) error {
	if width <= 0 {
		return ErrInvalidWidth
	}
	if TextRows(wrapped, width)+7 >= height {
		return fmt.Errorf("%w (%dx%d)", ErrWindowTooSmall, width, height)
	}
	return nil
}

func lastSpaceBefore(runes []rune, end int) int {
	for i := end - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// padAt replaces the single space at idx with count spaces.
func padAt(runes []rune, idx, count int) []rune {
	out := make([]rune, 0, len(runes)+count-1)
	out = append(out, runes[:idx]...)
	for i := 0; i < count; i++ {
		out = append(out, ' ')
	}
	return append(out, runes[idx+1:]...)
}
