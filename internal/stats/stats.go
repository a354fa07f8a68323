// Package stats contains history statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/retype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of runs.
type Summary struct {
	Runs        int
	AvgWPM      float64
	BestWPM     float64
	AvgAccuracy float64
	TotalTime   time.Duration
}

// Summarize folds records into a Summary.
func Summarize(records []model.HistoryRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	var sum Summary
	var totalWPM, totalAcc float64
	for _, r := range records {
		totalWPM += r.WPM
		totalAcc += r.Accuracy
		if r.WPM > sum.BestWPM {
			sum.BestWPM = r.WPM
		}
		sum.TotalTime += time.Duration(r.ElapsedMs) * time.Millisecond
	}
	sum.Runs = len(records)
	sum.AvgWPM = totalWPM / float64(len(records))
	sum.AvgAccuracy = totalAcc / float64(len(records))
	return sum
}

// WPMSeries extracts the speed of each run in order.
func WPMSeries(records []model.HistoryRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.WPM
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}

// RenderSummary prints aggregate figures for the runs.
func RenderSummary(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "0 records found")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d", s.Runs),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Time typing: %s", s.TotalTime.Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per run: text ID, speed, local date and time,
// and accuracy.
func RenderHistory(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "0 records found")
		return err
	}
	if _, err := fmt.Fprintf(w, "Last %d records:\n", len(records)); err != nil {
		return err
	}
	headers := []string{"ID", "WPM", "DATE", "TIME", "ACCURACY"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		local := r.FinishedAt.Local()
		rows = append(rows, []string{
			r.TextID,
			fmt.Sprintf("%.2f", r.WPM),
			local.Format(time.DateOnly),
			local.Format(time.TimeOnly),
			fmt.Sprintf("%.2f%%", r.Accuracy),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 0
	}
	return lo, hi
}
