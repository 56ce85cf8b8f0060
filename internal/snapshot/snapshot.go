// Package snapshot owns the Snapshot — the single immutable bundle of
// catalog, columns, string pool, and indexes that forms the unit of
// ownership for one version of the data — and the Manager that atomically
// swaps the published Snapshot.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/scrapbird/holidayfinder/internal/columnstore"
	"github.com/scrapbird/holidayfinder/internal/hoteltable"
	"github.com/scrapbird/holidayfinder/internal/index"
	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

// Stats summarizes one ingest run; the ingest command prints it.
type Stats struct {
	BuiltAt time.Time
	IngestDuration time.Duration
	HotelsIngested int
	OffersIngested int
	HotelRowErrors int
	OfferRowErrors int
	IndexBytes int64
}

// Snapshot is fully immutable once returned from a build: no column, index,
// or pool entry mutates after publication, so concurrent readers need no
// locks.
type Snapshot struct {
	Pool *stringpool.Pool
	Columns *columnstore.Store
	Hotels *hoteltable.Table
	Indexes *index.Set
	Stats Stats
}

// Manager owns exactly one published Snapshot at a time.
// Swap atomically replaces the published pointer; Go's garbage collector
// plays the role of "released once all outstanding borrows are dropped" —
// a Current() caller holds a normal reference for as long as its request
// runs, and the old Snapshot is collected once the last such reference
// drops, with no explicit refcounting required.
type Manager struct {
	current atomic.Pointer[Snapshot]
}

// NewManager returns a Manager with no published snapshot yet; Current
// returns nil until the first Swap.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the published Snapshot, valid for the duration of the
// caller's request. Returns nil if nothing has been published yet.
func (m *Manager) Current() *Snapshot {
	return m.current.Load()
}

// Swap atomically publishes s as the new current Snapshot. A query resolved
// against the Snapshot returned by a Current() call made before Swap always
// sees that Snapshot's data in full — Swap never mutates the Snapshot a
// reader already holds, so a reload mid-query cannot observe a partially
// built index set.
func (m *Manager) Swap(s *Snapshot) {
	m.current.Store(s)
}

// Ready reports whether a Snapshot has ever been published — the surface
// adapter's "503 while ingest in progress" liveness signal.
func (m *Manager) Ready() bool {
	return m.current.Load() != nil
}
