package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, "WPM", []float64{10, 20, 30, 20, 10}, 12, 4, false); err != nil {
		t.Fatalf("chart: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title plus 4 rows, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "WPM" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "30.0 │ ") || !strings.HasPrefix(lines[4], "10.0 │ ") {
		t.Fatalf("unexpected labels:\n%s", buf.String())
	}
	for _, line := range lines[1:] {
		if n := utf8.RuneCountInString(line); n != 4+3+12 {
			t.Fatalf("expected row width 19, got %d in %q", n, line)
		}
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no colour codes")
	}
}

func TestRenderChartColorAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, "", nil, 10, 2, true); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for empty series")
	}
	if err := RenderChart(&buf, "", []float64{5}, 10, 2, true); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if !strings.Contains(buf.String(), chartColor) {
		t.Fatalf("expected colour codes")
	}
}

func TestChartWidthFor(t *testing.T) {
	if got := ChartWidthFor(80, 5); got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
	if got := ChartWidthFor(0, 5); got != minChartWidth {
		t.Fatalf("expected min width, got %d", got)
	}
}

func TestDotMask(t *testing.T) {
	want := map[[2]int]uint8{{0, 0}: 0x01, {0, 1}: 0x02, {0, 2}: 0x04, {0, 3}: 0x40, {1, 0}: 0x08, {1, 1}: 0x10, {1, 2}: 0x20, {1, 3}: 0x80}
	for k, v := range want {
		if got := dotMask(k[0], k[1]); got != v {
			t.Fatalf("dot %v: expected %#x, got %#x", k, v, got)
		}
	}
}
