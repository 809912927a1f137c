package pipeline

import (
	"testing"

	"github.com/simon4657/stockcal-api/internal/model"
)

func ev(id, date string) model.Event {
	return model.Event{ID: id, Date: date}
}

func ids[T Record](batch []T) []string {
	out := make([]string, 0, len(batch))
	for _, r := range batch {
		out = append(out, r.RecordID())
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFuture_StrictlyAfterReference(t *testing.T) {
	batch := []model.Event{
		ev("past", "2025-12-31"),
		ev("same-day", "2026-01-01"),
		ev("future", "2026-01-02"),
	}

	got := Future(batch, "2026-01-01")
	if !equalIDs(ids(got), []string{"future"}) {
		t.Errorf("got %v, want [future]", ids(got))
	}
}

func TestFuture_DropsUnparsableDates(t *testing.T) {
	batch := []model.Event{
		ev("ok", "2026-06-01"),
		ev("garbage", "soon"),
		ev("empty", ""),
	}

	got := Future(batch, "2026-01-01")
	if !equalIDs(ids(got), []string{"ok"}) {
		t.Errorf("got %v, want [ok]", ids(got))
	}
}

func TestWindow_InclusiveBounds(t *testing.T) {
	batch := []model.Event{
		ev("before", "2026-02-28"),
		ev("start", "2026-03-01"),
		ev("mid", "2026-03-15"),
		ev("end", "2026-04-30"),
		ev("after", "2026-05-01"),
	}

	got := Window(batch, "2026-03-01", "2026-04-30")
	if !equalIDs(ids(got), []string{"start", "mid", "end"}) {
		t.Errorf("got %v, want [start mid end]", ids(got))
	}
}

func TestWindow_NeverRetainsOutside(t *testing.T) {
	batch := []model.Event{
		ev("a", "2026-01-01"),
		ev("b", "2026-12-31"),
	}

	got := Window(batch, "2026-03-01", "2026-03-31")
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
}

func TestFilters_DoNotMutateDates(t *testing.T) {
	batch := []model.Event{ev("a", "2026-03-15")}

	future := Future(batch, "2026-01-01")
	window := Window(batch, "2026-03-01", "2026-03-31")

	if future[0].Date != "2026-03-15" || window[0].Date != "2026-03-15" {
		t.Error("filter mutated a date")
	}
}
