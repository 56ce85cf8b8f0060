package query

import (
	"context"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/scrapbird/holidayfinder/internal/apperr"
	"github.com/scrapbird/holidayfinder/internal/columnstore"
	"github.com/scrapbird/holidayfinder/internal/hoteltable"
	"github.com/scrapbird/holidayfinder/internal/index"
	"github.com/scrapbird/holidayfinder/internal/snapshot"
	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

// BestPerHotelRow is one row of a best_per_hotel result: the cheapest
// qualifying offer at a hotel, plus the count of offers at that hotel that
// also qualified.
type BestPerHotelRow struct {
	Hotel hoteltable.Hotel
	Row columnstore.RowID
	Price float32
	AvailableCount int
}

// HotelDetailResult is the hotel_detail(h) result: every qualifying offer at
// one hotel, in price order, plus the hotel metadata for 404 discrimination.
type HotelDetailResult struct {
	Hotel hoteltable.Hotel
	Rows []columnstore.RowID
}

// Planner is the query planner, stateless over a single Snapshot.
type Planner struct {
	DeadlineBestPerHotel time.Duration
	MaxResultsBestPerHotel int
	MaxResultsPerHotel int
}

// NewPlanner returns a Planner configured from the resolved config knobs.
func NewPlanner(deadline time.Duration, maxBestPerHotel, maxPerHotel int) *Planner {
	return &Planner{
		DeadlineBestPerHotel: deadline,
		MaxResultsBestPerHotel: maxBestPerHotel,
		MaxResultsPerHotel: maxPerHotel,
	}
}

// predicateFields holds the resolved, snapshot-specific form of the filter
// predicate's terms, computed once per query rather than recomputed per
// candidate row.
type predicateFields struct {
	airports map[stringpool.ID]struct{}
	earliestMs int64
	latestMs int64 // latest_return + 1 day, end-inclusive
	durationNights uint16
	adults uint8
	children uint8
}

func resolvePredicate(s *snapshot.Snapshot, q Query) predicateFields {
	airports := make(map[stringpool.ID]struct{}, len(q.DepartureAirports))
	for _, a := range q.DepartureAirports {
		if id, ok := s.Pool.Lookup(strings.ToUpper(strings.TrimSpace(a))); ok {
			airports[id] = struct{}{}
		}
	}
	return predicateFields{
		airports: airports,
		earliestMs: q.EarliestDepart.UTC().UnixMilli(),
		latestMs: q.LatestReturn.UTC().AddDate(0, 0, 1).UnixMilli(),
		durationNights: q.DurationNights,
		adults: q.Adults,
		children: q.Children,
	}
}

// matches applies the five-term filter predicate to one row.
func (p predicateFields) matches(cols *columnstore.Store, r columnstore.RowID) bool {
	if _, ok := p.airports[cols.OutboundDepartAirport(r)]; !ok {
		return false
	}
	if cols.OutboundDepartTS(r) < p.earliestMs {
		return false
	}
	if cols.InboundDepartTS(r) > p.latestMs {
		return false
	}
	if uint16(cols.DurationNights(r)) != p.durationNights {
		return false
	}
	if cols.Adults(r) != p.adults || cols.Children(r) != p.children {
		return false
	}
	return true
}

// HotelDetail implements the hotel_detail(h) access path: scan byHotel[h] in
// price order, applying the predicate, stopping at MaxResultsPerHotel.
// Returns a NotFound apperr if hotelID has no catalog or synthesized entry
// in this snapshot.
func (p *Planner) HotelDetail(ctx context.Context, s *snapshot.Snapshot, q Query) (*HotelDetailResult, error) {
	entry, ok := s.Hotels.Lookup(q.HotelID)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "hotel not found")
	}

	pred := resolvePredicate(s, q)
	candidates := s.Indexes.ByHotel(entry.DenseIndex)

	limit := p.MaxResultsPerHotel
	if limit <= 0 {
		limit = len(candidates)
	}

	rows := make([]columnstore.RowID, 0, min(limit, len(candidates)))
	for _, r := range candidates {
		select {
		case <-ctx.Done():
			return &HotelDetailResult{Hotel: entry.Hotel, Rows: rows}, nil
		default:
		}
		if pred.matches(s.Columns, r) {
			rows = append(rows, r)
			if len(rows) >= limit {
				break
			}
		}
	}
	// candidates is already price-ascending (index.Build sorts byHotel), so
	// rows collected in scan order are already sorted; ties broke on row id
	// ascending during that same sort.
	return &HotelDetailResult{Hotel: entry.Hotel, Rows: rows}, nil
}

// BestPerHotel implements the best_per_hotel access path: drive off the
// smallest of {airport union, month union, pax bucket}, probe
// membership in the other two, apply the full predicate, group by hotel
// keeping the minimum price, then sort ascending by price with hotel id as
// the tie-break.
func (p *Planner) BestPerHotel(ctx context.Context, s *snapshot.Snapshot, q Query) ([]BestPerHotelRow, error) {
	deadline := p.DeadlineBestPerHotel
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	dctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	pred := resolvePredicate(s, q)

	airportUnion := roaring.New()
	for id := range pred.airports {
		if bm := s.Indexes.Airport(id); bm != nil {
			airportUnion.Or(bm)
		}
	}

	monthUnion := roaring.New()
	start := index.MonthKeyFor(q.EarliestDepart.UTC().UnixMilli())
	end := index.MonthKeyFor(q.LatestReturn.UTC().UnixMilli())
	for mk := start; mk <= end; mk++ {
		if bm := s.Indexes.Month(mk); bm != nil {
			monthUnion.Or(bm)
		}
	}

	paxBitmap := s.Indexes.Pax(q.Adults, q.Children)
	if paxBitmap == nil {
		paxBitmap = roaring.New()
	}

	driver, probeA, probeB := pickDriver(airportUnion, monthUnion, paxBitmap)

	byDense := make(map[uint32]*hotelAgg)

	it := driver.Iterator()
	scanned := 0
	for it.HasNext() {
		r := columnstore.RowID(it.Next())
		scanned++
		if scanned%4096 == 0 {
			select {
			case <-dctx.Done():
				return finalizeBestPerHotel(byDense, p.MaxResultsBestPerHotel), nil
			default:
			}
		}
		if !probeA.Contains(uint32(r)) || !probeB.Contains(uint32(r)) {
			continue
		}
		if !pred.matches(s.Columns, r) {
			continue
		}
		// The dense index and hotel metadata for every hotel_id appearing in
		// columns were already resolved once during index.Build, before this
		// Snapshot was published, so the read-only Lookup always finds an
		// entry and never mutates hoteltable.Table concurrently.
		entry, ok := s.Hotels.Lookup(s.Columns.HotelID(r))
		if !ok {
			continue
		}
		price := s.Columns.Price(r)
		a, ok := byDense[entry.DenseIndex]
		if !ok {
			byDense[entry.DenseIndex] = &hotelAgg{hotel: entry.Hotel, best: r, price: price, count: 1}
			continue
		}
		a.count++
		if price < a.price || (price == a.price && r < a.best) {
			a.best = r
			a.price = price
		}
	}

	return finalizeBestPerHotel(byDense, p.MaxResultsBestPerHotel), nil
}

// hotelAgg is the running aggregate for one hotel during a best_per_hotel
// scan: the cheapest qualifying row seen so far, its price (cached to avoid
// a ColumnStore lookup per comparison), and the count of qualifying rows.
type hotelAgg struct {
	hotel hoteltable.Hotel
	best columnstore.RowID
	price float32
	count int
}

func finalizeBestPerHotel(byDense map[uint32]*hotelAgg, maxResults int) []BestPerHotelRow {
	rows := make([]BestPerHotelRow, 0, len(byDense))
	for _, a := range byDense {
		rows = append(rows, BestPerHotelRow{Hotel: a.hotel, Row: a.best, Price: a.price, AvailableCount: a.count})
	}
	sortBestPerHotelByPrice(rows)
	if maxResults > 0 && len(rows) > maxResults {
		rows = rows[:maxResults]
	}
	return rows
}

// sortBestPerHotelByPrice orders ascending by the selected offer's price,
// ties broken by hotel id ascending.
func sortBestPerHotelByPrice(rows []BestPerHotelRow) {
	for i := 1; i < len(rows); i++ {
		v := rows[i]
		j := i - 1
		for j >= 0 {
			if v.Price < rows[j].Price || (v.Price == rows[j].Price && v.Hotel.ID < rows[j].Hotel.ID) {
				rows[j+1] = rows[j]
				j--
				continue
			}
			break
		}
		rows[j+1] = v
	}
}

// pickDriver returns the smallest of the three posting sets as the driver
// and the other two as probe sets: it picks the smallest as the driver,
// then probes membership in the others.
func pickDriver(a, b, c *roaring.Bitmap) (driver, probe1, probe2 *roaring.Bitmap) {
	ca, cb, cc := a.GetCardinality(), b.GetCardinality(), c.GetCardinality()
	switch {
	case ca <= cb && ca <= cc:
		return a, b, c
	case cb <= ca && cb <= cc:
		return b, a, c
	default:
		return c, a, b
	}
}
