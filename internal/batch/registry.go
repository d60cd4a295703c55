package batch

import (
	"sort"

	"simple-media-downloader/internal/model"
)

// Registry is the session-scoped store of failed downloads. It holds an
// ordered record sequence and exposes only whole-state transformations;
// callers (the orchestrator) own all retry sequencing, so the registry
// is never mutated from more than one place at a time.
type Registry struct {
	records []model.FailureRecord
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Append(recs ...model.FailureRecord) {
	r.records = append(r.records, recs...)
}

func (r *Registry) Len() int {
	return len(r.records)
}

// List returns a snapshot for display. Indices shown to the user are
// 1-based positions in this snapshot and are not stored.
func (r *Registry) List() []model.FailureRecord {
	out := make([]model.FailureRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Drain removes and returns every record. Retry-all drains first so
// records that fail again are appended as fresh entries, never
// re-identified with the old ones.
func (r *Registry) Drain() []model.FailureRecord {
	out := r.records
	r.records = nil
	return out
}

// TakeSelected removes the records at the given 1-based indices of the
// current snapshot and returns them in their original ascending order.
// Out-of-range and duplicate indices are ignored. Removal happens in
// descending index order so earlier removals cannot shift later ones.
func (r *Registry) TakeSelected(indices []int) []model.FailureRecord {
	valid := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(r.records) || seen[idx] {
			continue
		}
		seen[idx] = true
		valid = append(valid, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(valid)))

	taken := make([]model.FailureRecord, 0, len(valid))
	for _, idx := range valid {
		taken = append(taken, r.records[idx-1])
		r.records = append(r.records[:idx-1], r.records[idx:]...)
	}

	// valid is descending, so reverse restores original ascending order.
	for i, j := 0, len(taken)-1; i < j; i, j = i+1, j-1 {
		taken[i], taken[j] = taken[j], taken[i]
	}
	return taken
}

// GroupByLabel partitions records by group label, preserving first-seen
// label order and record order within each group.
func GroupByLabel(recs []model.FailureRecord) [][]model.FailureRecord {
	byLabel := make(map[string]int)
	groups := make([][]model.FailureRecord, 0)
	for _, rec := range recs {
		i, ok := byLabel[rec.GroupLabel]
		if !ok {
			i = len(groups)
			byLabel[rec.GroupLabel] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], rec)
	}
	return groups
}
