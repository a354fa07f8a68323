// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrEmpty is returned for a list without any words.
var ErrEmpty = errors.New("word list is empty")

//go:embed words.txt
var defaultWords string

// Default returns the built-in English word list.
func Default() []string {
	words, err := Parse(strings.NewReader(defaultWords))
	if err != nil {
		panic("wordlist: built-in list: " + err.Error())
	}
	return words
}

// Load reads path, or returns the built-in list when path is empty.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadWords(path)
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return Parse(file)
}

// Parse reads one word per line, skipping blank lines and # comments.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
