// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	TextID     string
	Difficulty int
	File       string
	Words      int
	WordList   string
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
}

// HistoryRecord captures a completed typing run.
type HistoryRecord struct {
	RunID      string
	TextID     string
	WPM        float64
	Accuracy   float64
	ElapsedMs  int64
	FinishedAt time.Time
}

// HistoryQuery filters history listings.
type HistoryQuery struct {
	TextID string
	Since  *time.Time
	Last   int
}

// TextEntry is a row of the text corpus.
type TextEntry struct {
	ID   int64
	Body string
}
