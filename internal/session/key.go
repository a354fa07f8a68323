package session

import "fmt"

// KeyKind classifies an input event.
type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune
	KeySpace
	KeyBackspace
	KeyWordErase
	KeyEscape
	KeyInterrupt
	KeyResize
	KeyTab
	KeyEnter
	KeyLeft
	KeyRight
)

var keyKindNames = [...]string{
	KeyUnknown:   "unknown",
	KeyRune:      "rune",
	KeySpace:     "space",
	KeyBackspace: "backspace",
	KeyWordErase: "word-erase",
	KeyEscape:    "escape",
	KeyInterrupt: "interrupt",
	KeyResize:    "resize",
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyLeft:      "left",
	KeyRight:     "right",
}

func (k KeyKind) String() string {
	if k < 0 || int(k) >= len(keyKindNames) {
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
	return keyKindNames[k]
}

// Key is a single input event. Rune is set for KeyRune, Width and Height for KeyResize.
type Key struct {
	Kind   KeyKind
	Rune   rune
	Width  int
	Height int
}

// Rune returns the key event for a typed character.
func Rune(r rune) Key {
	if r == ' ' {
		return Key{Kind: KeySpace}
	}
	return Key{Kind: KeyRune, Rune: r}
}

// Resize returns the key event for a terminal resize.
func Resize(width, height int) Key {
	return Key{Kind: KeyResize, Width: width, Height: height}
}

// Runes expands a string into one key per character.
func Runes(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Rune(r))
	}
	return keys
}

func (k Key) String() string {
	switch k.Kind {
	case KeyRune:
		return fmt.Sprintf("rune(%q)", k.Rune)
	case KeyResize:
		return fmt.Sprintf("resize(%dx%d)", k.Width, k.Height)
	default:
		return k.Kind.String()
	}
}

func (k Key) normalize() Key {
	if k.Kind == KeyRune && k.Rune == ' ' {
		return Key{Kind: KeySpace}
	}
	return k
}
