package pipeline

import (
	"log/slog"
	"sort"
)

// MergeConfig controls how a fresh batch is combined with the previously
// persisted one.
type MergeConfig[T Record] struct {
	// ProtectedIDs is the allow-list of fixed records. Protected records in
	// the old batch survive every expiry pass.
	ProtectedIDs map[string]bool
	// ReferenceDay is the day expiry is evaluated against: a non-protected
	// old record survives only if dated strictly after it.
	ReferenceDay string
	// Refresh, when set, regenerates the derived fields of each protected
	// record. A refresh failure keeps the prior content and the merge
	// continues. Refresh must not change the record's id or date; a result
	// that does is discarded in favor of the original.
	Refresh func(T) (T, error)
}

// Merge produces the batch to persist from the previously stored batch and a
// freshly generated, validated, filtered one.
//
// Expiry runs before the seen-set is built, so a fresh record may reuse the id
// of an old record that was purged in the same pass. Ids surviving from the
// old batch always win over fresh records carrying the same id, and the first
// occurrence wins among duplicates within the fresh batch itself.
func Merge[T Record](old, fresh []T, cfg MergeConfig[T]) []T {
	out := make([]T, 0, len(old)+len(fresh))
	seen := make(map[string]bool, len(old)+len(fresh))

	for _, rec := range old {
		if seen[rec.RecordID()] {
			slog.Warn("dropping duplicate id in stored batch", "id", rec.RecordID())
			continue
		}

		if cfg.ProtectedIDs[rec.RecordID()] {
			out = append(out, refreshProtected(rec, cfg.Refresh))
			seen[rec.RecordID()] = true
			continue
		}

		if rec.RecordDate() > cfg.ReferenceDay {
			out = append(out, rec)
			seen[rec.RecordID()] = true
		}
	}

	for _, rec := range fresh {
		if seen[rec.RecordID()] {
			continue
		}
		out = append(out, rec)
		seen[rec.RecordID()] = true
	}

	return out
}

func refreshProtected[T Record](rec T, refresh func(T) (T, error)) T {
	if refresh == nil {
		return rec
	}

	updated, err := refresh(rec)
	if err != nil {
		slog.Warn("detail refresh failed, keeping prior content", "id", rec.RecordID(), "error", err)
		return rec
	}
	if updated.RecordID() != rec.RecordID() || updated.RecordDate() != rec.RecordDate() {
		slog.Warn("detail refresh altered identity, keeping prior content", "id", rec.RecordID())
		return rec
	}
	return updated
}

// SortByDate orders a batch by date ascending. The comparison is lexicographic
// on the ISO date string and the sort is stable: records sharing a date keep
// their relative order from the merge step.
func SortByDate[T Record](batch []T) {
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].RecordDate() < batch[j].RecordDate()
	})
}
