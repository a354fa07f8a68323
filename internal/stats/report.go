package stats

import (
	"context"

	"github.com/verte-zerg/retype/internal/model"
)

// HistoryLister is the part of the store a Report reads from.
type HistoryLister interface {
	ListHistory(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Records []model.HistoryRecord
	Summary Summary
	Trend   []float64
}

// BuildReport loads runs matching q and smooths their speed over window runs.
func BuildReport(ctx context.Context, st HistoryLister, q model.HistoryQuery, window int) (Report, error) {
	records, err := st.ListHistory(ctx, q)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Records: records,
		Summary: Summarize(records),
		Trend:   MovingAverage(WPMSeries(records), window),
	}, nil
}
