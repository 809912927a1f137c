package pipeline

import (
	"log/slog"

	"github.com/simon4657/stockcal-api/internal/model"
)

// Record is the common surface of the three record kinds: a unique identifier
// and an ISO date string. Dates compare lexicographically.
type Record interface {
	RecordID() string
	RecordDate() string
}

// Future keeps records dated strictly after the reference day. Records with
// unparsable dates are dropped. Input order is preserved; dates are never
// mutated.
func Future[T Record](batch []T, referenceDay string) []T {
	out := make([]T, 0, len(batch))
	for _, rec := range batch {
		date := rec.RecordDate()
		if !model.ValidDate(date) {
			slog.Warn("dropping record with unparsable date", "id", rec.RecordID(), "date", date)
			continue
		}
		if date > referenceDay {
			out = append(out, rec)
		}
	}
	return out
}

// Window keeps records dated within [start, end] inclusive. Records with
// unparsable dates are dropped. Input order is preserved.
func Window[T Record](batch []T, start, end string) []T {
	out := make([]T, 0, len(batch))
	for _, rec := range batch {
		date := rec.RecordDate()
		if !model.ValidDate(date) {
			slog.Warn("dropping record with unparsable date", "id", rec.RecordID(), "date", date)
			continue
		}
		if date >= start && date <= end {
			out = append(out, rec)
		}
	}
	return out
}
