// Package index builds the secondary indexes over a finalized ColumnStore: a
// price-sorted per-hotel posting list, and three unordered per-attribute
// posting sets used purely for membership probing.
//
// byAirport, byMonth, and byPax are backed by github.com/RoaringBitmap/roaring
// rather than plain []RowID slices. Unlike byHotel — which must stay
// price-ordered for O(k) cheapest-first enumeration, something a bitmap
// cannot represent — these three indexes are pure sets used only for
// intersection/union probing in the query planner, which is exactly the
// operation roaring bitmaps are built for. Bitmaps are exact, never
// false-positive, and are strictly more informative than a linear slice
// when the driver posting list is large.
package index

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/scrapbird/holidayfinder/internal/columnstore"
	"github.com/scrapbird/holidayfinder/internal/hoteltable"
	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

// MonthKey identifies a (year, month) bucket as year*12+month, derived from
// outbound_depart_ts.
type MonthKey int32

func monthKeyOf(unixMs int64) MonthKey {
	t := time.UnixMilli(unixMs).UTC()
	return MonthKey(int32(t.Year())*12 + int32(t.Month()))
}

// MonthKeyFor exposes monthKeyOf for the query planner's bucket-range walk.
func MonthKeyFor(unixMs int64) MonthKey { return monthKeyOf(unixMs) }

// paxKey packs (adults, children) into a single "7-bit composite" byte:
// adults and children are each bounded 0..10, so adults*11+children is a
// bijection onto 0..120, which fits in 7 bits.
func paxKey(adults, children uint8) uint8 {
	return adults*11 + children
}

// PaxKeyFor exposes paxKey for the query planner.
func PaxKeyFor(adults, children uint8) uint8 { return paxKey(adults, children) }

// Set is the full collection of secondary indexes for one snapshot.
// Everything in Set stores only row ids, never hotel or column data directly;
// resolving a row id back to its fields always goes back through the owning
// ColumnStore.
type Set struct {
	// byHotel[denseIndex] is that hotel's row ids, sorted ascending by price.
	byHotel [][]columnstore.RowID

	byAirport map[stringpool.ID]*roaring.Bitmap
	byMonth map[MonthKey]*roaring.Bitmap
	byPax [121]*roaring.Bitmap
}

// Build constructs a Set over columns: a counting pre-pass sizes byHotel
// exactly (avoiding reallocation storms), then a single fill pass populates
// all four indexes, then one in-place sort per hotel bucket.
// hotels need not contain every hotel_id referenced by columns — any id
// absent from the catalog is resolved to a synthetic entry here, the first
// time that id is seen, in row order (deterministic for a fixed row order).
func Build(columns *columnstore.Store, hotels *hoteltable.Table) *Set {
	n := columns.Len()

	denseOf := make([]uint32, n)
	counts := make(map[uint32]int)
	for r := columnstore.RowID(0); r < columnstore.RowID(n); r++ {
		entry := hotels.Resolve(columns.HotelID(r))
		denseOf[r] = entry.DenseIndex
		counts[entry.DenseIndex]++
	}

	byHotel := make([][]columnstore.RowID, hotels.Len())
	for denseIdx, c := range counts {
		byHotel[denseIdx] = make([]columnstore.RowID, 0, c)
	}

	byAirport := make(map[stringpool.ID]*roaring.Bitmap)
	byMonth := make(map[MonthKey]*roaring.Bitmap)
	var byPax [121]*roaring.Bitmap

	for r := columnstore.RowID(0); r < columnstore.RowID(n); r++ {
		denseIdx := denseOf[r]
		byHotel[denseIdx] = append(byHotel[denseIdx], r)

		ap := columns.OutboundDepartAirport(r)
		bm := byAirport[ap]
		if bm == nil {
			bm = roaring.New()
			byAirport[ap] = bm
		}
		bm.Add(uint32(r))

		mk := monthKeyOf(columns.OutboundDepartTS(r))
		mbm := byMonth[mk]
		if mbm == nil {
			mbm = roaring.New()
			byMonth[mk] = mbm
		}
		mbm.Add(uint32(r))

		pk := paxKey(columns.Adults(r), columns.Children(r))
		if byPax[pk] == nil {
			byPax[pk] = roaring.New()
		}
		byPax[pk].Add(uint32(r))
	}

	for denseIdx := range byHotel {
		bucket := byHotel[denseIdx]
		sortByPrice(columns, bucket)
	}

	return &Set{
		byHotel: byHotel,
		byAirport: byAirport,
		byMonth: byMonth,
		byPax: byPax,
	}
}

// sortByPrice sorts rows ascending by price, ties broken by row id — the
// ordering byHotel and hotel_detail results both rely on.
func sortByPrice(columns *columnstore.Store, rows []columnstore.RowID) {
	quickSortByPrice(columns, rows)
}

func quickSortByPrice(columns *columnstore.Store, rows []columnstore.RowID) {
	// insertion sort is sufficient here: per-hotel bucket sizes in this
	// domain (offers per hotel) are small relative to the full dataset, and
	// the comparator never allocates.
	for i := 1; i < len(rows); i++ {
		v := rows[i]
		vp := columns.Price(v)
		j := i - 1
		for j >= 0 && less(columns, v, vp, rows[j]) {
			rows[j+1] = rows[j]
			j--
		}
		rows[j+1] = v
	}
}

func less(columns *columnstore.Store, a columnstore.RowID, aPrice float32, b columnstore.RowID) bool {
	bPrice := columns.Price(b)
	if aPrice != bPrice {
		return aPrice < bPrice
	}
	return a < b
}

// ByHotel returns the price-sorted row ids for a dense hotel index.
func (s *Set) ByHotel(denseIndex uint32) []columnstore.RowID {
	if int(denseIndex) >= len(s.byHotel) {
		return nil
	}
	return s.byHotel[denseIndex]
}

// Airport returns the posting set for a departure-airport string id, or nil
// if no offer departs from it.
func (s *Set) Airport(id stringpool.ID) *roaring.Bitmap {
	return s.byAirport[id]
}

// Month returns the posting set for a (year,month) bucket, or nil.
func (s *Set) Month(k MonthKey) *roaring.Bitmap {
	return s.byMonth[k]
}

// Pax returns the posting set for a (adults,children) pair, or nil.
func (s *Set) Pax(adults, children uint8) *roaring.Bitmap {
	return s.byPax[paxKey(adults, children)]
}

// HotelCount reports how many dense hotel slots the index spans.
func (s *Set) HotelCount() int { return len(s.byHotel) }

// EstimateBytes reports the approximate memory footprint of the full index
// set, reported as snapshot.Stats.IndexBytes: 4 bytes
// per row_id in byHotel, plus the three roaring bitmaps which run well under
// 4 bytes/row for offer data with this few distinct values per attribute.
func (s *Set) EstimateBytes() int64 {
	var total int64
	for _, bucket := range s.byHotel {
		total += int64(len(bucket)) * 4
	}
	for _, bm := range s.byAirport {
		total += int64(bm.GetSizeInBytes())
	}
	for _, bm := range s.byMonth {
		total += int64(bm.GetSizeInBytes())
	}
	for _, bm := range s.byPax {
		if bm != nil {
			total += int64(bm.GetSizeInBytes())
		}
	}
	return total
}
