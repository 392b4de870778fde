// Package ledger overlays optimistic per-item mutations on fetched result
// rows and reconciles them with the API's answers.
//
// Rows are never modified; each item has a sparse Patch that Project merges
// over the row. Rolling back writes the previous facet value into the patch
// instead of deleting the entry, because other facets of the same item may
// still be pending.
package ledger

import (
	"sync"

	"github.com/watchlist/triage/internal/domain"
)

// Ledger maps item ids to their pending patches. It is safe for concurrent
// use.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]Patch
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]Patch)}
}

// Project returns rows with their patches applied. Rows without a patch pass
// through unchanged. It does not modify the ledger or the input.
func (l *Ledger) Project(rows []domain.ItemRow) []domain.ItemRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ItemRow, len(rows))
	for i, row := range rows {
		if p, ok := l.entries[row.ItemID]; ok {
			out[i] = p.Apply(row)
		} else {
			out[i] = row
		}
	}
	return out
}

// ProjectRow is Project for a single row.
func (l *Ledger) ProjectRow(row domain.ItemRow) domain.ItemRow {
	return l.Project([]domain.ItemRow{row})[0]
}

// Entry returns a copy of the patch for itemID.
func (l *Ledger) Entry(itemID string) (Patch, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.entries[itemID]
	return p.clone(), ok
}

// Len returns the number of items with an entry.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// ApplyOptimistic merges m into row's entry, creating it if needed, and
// returns the facet value it replaced. The previous value is the entry's when
// the facet was already patched, otherwise the row's.
func (l *Ledger) ApplyOptimistic(row domain.ItemRow, m Mutation) (previous Mutation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.entries[row.ItemID]
	previous = p.Current(row, m.Kind())
	l.entries[row.ItemID] = p.With(m)
	return previous
}

// Commit replaces the facet with the authoritative value from the API.
func (l *Ledger) Commit(itemID string, m Mutation) {
	l.write(itemID, m)
}

// Rollback writes previous back into the entry. The entry itself is kept.
func (l *Ledger) Rollback(itemID string, previous Mutation) {
	l.write(itemID, previous)
}

func (l *Ledger) write(itemID string, m Mutation) {
	if m == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[itemID] = l.entries[itemID].With(m)
}
