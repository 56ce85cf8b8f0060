// Package hoteltable implements the authoritative hotel catalog and the
// hotel-id to dense-index mapping used by IndexSet.
package hoteltable

// Hotel is the external, immutable hotel record.
type Hotel struct {
	ID uint32
	Name string
	Stars float32
}

// Entry is what Resolve returns: the hotel metadata, its dense index for
// indexing purposes, and whether it came from the catalog or was
// synthesized for an offer referencing an unknown hotel_id.
type Entry struct {
	Hotel Hotel
	DenseIndex uint32
	HasCatalogEntry bool
}

// Table is the hotel catalog, built once during ingest and immutable after
// publication.
type Table struct {
	known map[uint32]Hotel
	denseOf map[uint32]uint32
	synthetic map[uint32]Entry
	order []uint32 // catalog hotel ids in ingest order, for IterKnown
}

// New returns an empty table.
func New() *Table {
	return &Table{
		known: make(map[uint32]Hotel),
		denseOf: make(map[uint32]uint32),
		synthetic: make(map[uint32]Entry),
	}
}

// NewWithCapacity pre-sizes the catalog maps; ingest knows the catalog row
// count up front.
func NewWithCapacity(n int) *Table {
	return &Table{
		known: make(map[uint32]Hotel, n),
		denseOf: make(map[uint32]uint32, n),
		synthetic: make(map[uint32]Entry),
		order: make([]uint32, 0, n),
	}
}

// Add registers a catalog hotel, assigning it the next dense index. Called
// only by the Ingestor while parsing the hotel source. A duplicate id is
// ignored: the first catalog row for an id is kept and later ones are
// dropped without error.
func (t *Table) Add(h Hotel) {
	if _, exists := t.known[h.ID]; exists {
		return
	}
	idx := uint32(len(t.order))
	t.known[h.ID] = h
	t.denseOf[h.ID] = idx
	t.order = append(t.order, h.ID)
}

// Len reports the number of catalog hotels plus any synthesized entries
// created so far — the full span of dense indices in use.
func (t *Table) Len() int {
	return len(t.order) + len(t.synthetic)
}

// Resolve returns the Entry for hotelID: a catalog entry if one exists, or a
// deterministically-synthesized one for an id seen only in the offer
// stream. Synthesis assigns the next dense index past the catalog's, so
// offer ingestion — which may discover unknown hotel ids in any order —
// still yields stable, contiguous dense indices within one snapshot build.
func (t *Table) Resolve(hotelID uint32) Entry {
	if h, ok := t.known[hotelID]; ok {
		return Entry{Hotel: h, DenseIndex: t.denseOf[hotelID], HasCatalogEntry: true}
	}
	if e, ok := t.synthetic[hotelID]; ok {
		return e
	}
	idx := uint32(len(t.order) + len(t.synthetic))
	e := Entry{
		Hotel: Hotel{
			ID: hotelID,
			Name: syntheticName(hotelID),
			Stars: syntheticStars(hotelID),
		},
		DenseIndex: idx,
		HasCatalogEntry: false,
	}
	t.synthetic[hotelID] = e
	return e
}

// Lookup is the concurrency-safe counterpart to Resolve: it never
// synthesizes a new entry, only reading what either the catalog or a prior
// Resolve call already produced. Build() resolves every row's hotel_id while
// constructing IndexSet (single-threaded, pre-publication), so by the time a
// Snapshot is published every hotel_id referenced by an offer already has an
// entry here — query-time callers must use Lookup, never Resolve, since
// Resolve mutates the synthetic map and concurrent readers take no locks.
func (t *Table) Lookup(hotelID uint32) (Entry, bool) {
	if h, ok := t.known[hotelID]; ok {
		return Entry{Hotel: h, DenseIndex: t.denseOf[hotelID], HasCatalogEntry: true}, true
	}
	if e, ok := t.synthetic[hotelID]; ok {
		return e, true
	}
	return Entry{}, false
}

// IterKnown calls fn for every catalog hotel, in ingest order.
func (t *Table) IterKnown(fn func(Hotel)) {
	for _, id := range t.order {
		fn(t.known[id])
	}
}

func syntheticName(hotelID uint32) string {
	return "Hotel " + itoa(hotelID)
}

// syntheticStars implements deterministic_hash(id) mod 3 + 3.
// A multiplicative hash (Knuth's constant) spreads ids across the three
// buckets without needing a real hash library for a single uint32 mix.
func syntheticStars(hotelID uint32) float32 {
	h := hotelID * 2654435761
	return float32(h%3) + 3
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
