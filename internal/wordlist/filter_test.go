package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	got := Filter([]string{"b", "Á", "a", "c-d"}, FilterForLang("en"))
	if strings.Join(got, ",") != "b,a" {
		t.Fatalf("unexpected filter result %v", got)
	}
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	words, err := Parse(strings.NewReader("# header\n\n alpha \nbeta\n\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(words, ",") != "alpha,beta" {
		t.Fatalf("unexpected words %v", words)
	}
	if _, err := Parse(strings.NewReader("\n# only\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	def, err := Load("")
	if err != nil || len(def) < 100 {
		t.Fatalf("expected built-in list, got %d words, err %v", len(def), err)
	}
	if got := Filter(def, FilterForLang("en")); len(got) != len(def) {
		t.Fatalf("built-in list should be lowercase ascii")
	}

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := Load(path)
	if err != nil || len(words) != 2 {
		t.Fatalf("unexpected load result %v, %v", words, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
