// Package columnstore implements append-only columnar offer storage: one
// contiguous slice per attribute, all indexed by the same row_id, with each
// attribute stored in the narrowest integer type that fits its value
// domain. ocean_view is bit-packed, one bit per row.
package columnstore

import (
	"math"

	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

// RowID is a dense, 0-based row identifier, stable within a snapshot.
type RowID uint32

// Offer is the caller-facing shape of a single row, used only at append time
// and at final projection — internally rows live split across parallel
// column slices, never as individual structs: results carry row ids, not
// record references.
type Offer struct {
	HotelID uint32
	Price float32
	Adults uint8
	Children uint8
	OutboundDepartTS int64
	OutboundArriveTS int64
	InboundDepartTS int64
	InboundArriveTS int64
	OutboundDepartAirport stringpool.ID
	InboundDepartAirport stringpool.ID
	OutboundArriveAirport stringpool.ID
	InboundArriveAirport stringpool.ID
	MealType stringpool.ID
	RoomType stringpool.ID
	OceanView bool
	DurationNights uint8
}

// Store is the append-only columnar table. Appends happen only during
// ingest, before the snapshot is published; after publication it is read
// through the O(1) accessors below with no locking needed.
type Store struct {
	hotelID []uint32
	price []float32
	adults []uint8
	children []uint8
	outDepartTS []int64
	outArriveTS []int64
	inDepartTS []int64
	inArriveTS []int64
	outDepartAp []uint32
	inDepartAp []uint32
	outArriveAp []uint32
	inArriveAp []uint32
	mealType []uint32
	roomType []uint32
	oceanView []uint64 // bit-packed, 64 rows per word
	duration []uint8
}

// New returns an empty store pre-sized for capacity rows, avoiding the
// reallocation storms that a counting pre-pass is meant to prevent — the
// same discipline IndexSet's build pass applies to its own buckets.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		hotelID: make([]uint32, 0, capacity),
		price: make([]float32, 0, capacity),
		adults: make([]uint8, 0, capacity),
		children: make([]uint8, 0, capacity),
		outDepartTS: make([]int64, 0, capacity),
		outArriveTS: make([]int64, 0, capacity),
		inDepartTS: make([]int64, 0, capacity),
		inArriveTS: make([]int64, 0, capacity),
		outDepartAp: make([]uint32, 0, capacity),
		inDepartAp: make([]uint32, 0, capacity),
		outArriveAp: make([]uint32, 0, capacity),
		inArriveAp: make([]uint32, 0, capacity),
		mealType: make([]uint32, 0, capacity),
		roomType: make([]uint32, 0, capacity),
		oceanView: make([]uint64, 0, (capacity+63)/64),
		duration: make([]uint8, 0, capacity),
	}
}

// Append records offer and returns the row id it was assigned. Callers are
// expected to have already validated and derived DurationNights — Store
// itself does not re-derive it, matching the single-responsibility split
// between Ingestor (validation) and ColumnStore (storage).
func (s *Store) Append(o Offer) RowID {
	id := RowID(len(s.hotelID))
	s.hotelID = append(s.hotelID, o.HotelID)
	s.price = append(s.price, o.Price)
	s.adults = append(s.adults, o.Adults)
	s.children = append(s.children, o.Children)
	s.outDepartTS = append(s.outDepartTS, o.OutboundDepartTS)
	s.outArriveTS = append(s.outArriveTS, o.OutboundArriveTS)
	s.inDepartTS = append(s.inDepartTS, o.InboundDepartTS)
	s.inArriveTS = append(s.inArriveTS, o.InboundArriveTS)
	s.outDepartAp = append(s.outDepartAp, uint32(o.OutboundDepartAirport))
	s.inDepartAp = append(s.inDepartAp, uint32(o.InboundDepartAirport))
	s.outArriveAp = append(s.outArriveAp, uint32(o.OutboundArriveAirport))
	s.inArriveAp = append(s.inArriveAp, uint32(o.InboundArriveAirport))
	s.mealType = append(s.mealType, uint32(o.MealType))
	s.roomType = append(s.roomType, uint32(o.RoomType))
	s.duration = append(s.duration, o.DurationNights)

	word := int(id) / 64
	bit := uint(int(id) % 64)
	for len(s.oceanView) <= word {
		s.oceanView = append(s.oceanView, 0)
	}
	if o.OceanView {
		s.oceanView[word] |= 1 << bit
	}
	return id
}

// Len returns the number of rows appended so far.
func (s *Store) Len() uint32 {
	return uint32(len(s.hotelID))
}

func (s *Store) HotelID(r RowID) uint32 { return s.hotelID[r] }
func (s *Store) Price(r RowID) float32 { return s.price[r] }
func (s *Store) Adults(r RowID) uint8 { return s.adults[r] }
func (s *Store) Children(r RowID) uint8 { return s.children[r] }

func (s *Store) OutboundDepartTS(r RowID) int64 { return s.outDepartTS[r] }
func (s *Store) OutboundArriveTS(r RowID) int64 { return s.outArriveTS[r] }
func (s *Store) InboundDepartTS(r RowID) int64 { return s.inDepartTS[r] }
func (s *Store) InboundArriveTS(r RowID) int64 { return s.inArriveTS[r] }

func (s *Store) OutboundDepartAirport(r RowID) stringpool.ID {
	return stringpool.ID(s.outDepartAp[r])
}
func (s *Store) InboundDepartAirport(r RowID) stringpool.ID {
	return stringpool.ID(s.inDepartAp[r])
}
func (s *Store) OutboundArriveAirport(r RowID) stringpool.ID {
	return stringpool.ID(s.outArriveAp[r])
}
func (s *Store) InboundArriveAirport(r RowID) stringpool.ID {
	return stringpool.ID(s.inArriveAp[r])
}
func (s *Store) MealType(r RowID) stringpool.ID { return stringpool.ID(s.mealType[r]) }
func (s *Store) RoomType(r RowID) stringpool.ID { return stringpool.ID(s.roomType[r]) }

func (s *Store) OceanView(r RowID) bool {
	word := int(r) / 64
	bit := uint(int(r) % 64)
	return s.oceanView[word]&(1<<bit) != 0
}

func (s *Store) DurationNights(r RowID) uint8 { return s.duration[r] }

// DeriveDurationNights computes nights, floored, from the two departure
// timestamps. Negative or overflowing spans clamp to the uint8 domain
// rather than wrapping: a negative span stores 0, which no valid query
// (duration 1..=365) matches, and every span of 255 or more nights stores
// 255, so a 255-night query matches all of those rows.
func DeriveDurationNights(outboundDepartTS, inboundDepartTS int64) uint8 {
	const dayMs = 86_400_000
	nights := (inboundDepartTS - outboundDepartTS) / dayMs
	if nights < 0 {
		return 0
	}
	if nights > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(nights)
}

// BytesPerRow reports the fixed per-row footprint of the narrow column
// layout: 4 hotel id + 4 price + 2 pax + 8 × 4 timestamps + 4 × 6 string
// ids + 1 duration = 67 bytes per offer. The ~1/8 byte per row of the
// bit-packed ocean_view column is not included.
const BytesPerRow = 4 /*hotelID*/ + 4 /*price*/ + 1 /*adults*/ + 1 /*children*/ +
	8*4 /*four timestamps*/ + 4*6 /*six string ids*/ + 1 /*duration*/
