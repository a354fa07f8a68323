// Package diff locates the first point where typed text departs from the reference.
package diff

// FirstMismatch returns the index of the first differing rune between typed and
// reference, scanning only their common length. When the common prefix matches
// it returns that common length, which equals len(reference) once the whole
// reference has been typed.
func FirstMismatch(typed, reference []rune) int {
	n := len(typed)
	if len(reference) < n {
		n = len(reference)
	}
	for i := 0; i < n; i++ {
		if typed[i] != reference[i] {
			return i
		}
	}
	return n
}

// FirstMismatchString is FirstMismatch over code points of two strings.
func FirstMismatchString(typed, reference string) int {
	return FirstMismatch([]rune(typed), []rune(reference))
}
