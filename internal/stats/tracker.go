// Package stats maintains in-memory aggregate counts of classified
// failures. Counts live only for the process lifetime; nothing is
// persisted.
package stats

import (
	"sort"
	"sync"

	"github.com/vietddude/faultline/internal/core/domain"
)

// topErrorsLimit caps the top-errors list in snapshots.
const topErrorsLimit = 10

type record struct {
	category domain.Category
	severity domain.Severity
	count    int
	order    int // registration order, used to break count ties
}

// Tracker counts classified failures keyed by their derived code.
type Tracker struct {
	mu      sync.Mutex
	records map[string]*record
	next    int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]*record)}
}

// Track increments the count for the categorized error's code. A missing
// code is a no-op, not an error.
func (t *Tracker) Track(e *domain.CategorizedError) {
	if e == nil || e.Code == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[e.Code]
	if !ok {
		r = &record{category: e.Category, severity: e.Severity, order: t.next}
		t.next++
		t.records[e.Code] = r
	}
	r.count++
}

// Snapshot returns the aggregate view. Category and severity maps are
// zero-filled for every enumerated value. Top errors are the ten
// highest-count codes, descending; equal counts order by first
// observation (first-observed-wins).
func (t *Tracker) Snapshot() domain.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := domain.Stats{
		ByCategory: make(map[domain.Category]int, len(domain.Categories)),
		BySeverity: make(map[domain.Severity]int, len(domain.Severities)),
	}
	for _, c := range domain.Categories {
		s.ByCategory[c] = 0
	}
	for _, sv := range domain.Severities {
		s.BySeverity[sv] = 0
	}

	type entry struct {
		code string
		*record
	}
	entries := make([]entry, 0, len(t.records))
	for code, r := range t.records {
		s.TotalErrors += r.count
		s.ByCategory[r.category] += r.count
		s.BySeverity[r.severity] += r.count
		entries = append(entries, entry{code, r})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].order < entries[j].order
	})

	limit := len(entries)
	if limit > topErrorsLimit {
		limit = topErrorsLimit
	}
	s.TopErrors = make([]domain.CodeCount, 0, limit)
	for _, e := range entries[:limit] {
		s.TopErrors = append(s.TopErrors, domain.CodeCount{Code: e.code, Count: e.count})
	}

	return s
}

// Clear resets all counts.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[string]*record)
	t.next = 0
}
