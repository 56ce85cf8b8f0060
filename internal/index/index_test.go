package index

import (
	"testing"
	"time"

	"github.com/scrapbird/holidayfinder/internal/columnstore"
	"github.com/scrapbird/holidayfinder/internal/hoteltable"
	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

func buildFixture(t *testing.T) (*columnstore.Store, *hoteltable.Table, *stringpool.Pool) {
	t.Helper()
	pool := stringpool.New()
	cols := columnstore.New(0)
	hotels := hoteltable.New()
	hotels.Add(hoteltable.Hotel{ID: 1, Name: "Paradise", Stars: 4})
	hotels.Add(hoteltable.Hotel{ID: 2, Name: "Beach", Stars: 3.5})
	hotels.Add(hoteltable.Hotel{ID: 3, Name: "Luxury", Stars: 5})

	fra := pool.Intern("FRA")
	muc := pool.Intern("MUC")

	add := func(hotelID uint32, price float32, ap stringpool.ID, adults, children uint8, outDepart, inDepart int64) {
		cols.Append(columnstore.Offer{
			HotelID: hotelID,
			Price: price,
			Adults: adults,
			Children: children,
			OutboundDepartAirport: ap,
			OutboundDepartTS: outDepart,
			InboundDepartTS: inDepart,
			DurationNights: columnstore.DeriveDurationNights(outDepart, inDepart),
		})
	}

	t1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	t2 := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC).UnixMilli()
	add(1, 1200, fra, 2, 0, t1, t2)
	add(1, 900, fra, 2, 0, t1, t2)
	add(2, 1500, muc, 1, 1, t1, t2)
	add(3, 2000, fra, 2, 0, t1, t2)

	return cols, hotels, pool
}

func TestBuildByHotelSortedByPrice(t *testing.T) {
	cols, hotels, _ := buildFixture(t)
	idx := Build(cols, hotels)

	entry := hotels.Resolve(1)
	rows := idx.ByHotel(entry.DenseIndex)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if cols.Price(rows[0]) != 900 || cols.Price(rows[1]) != 1200 {
		t.Fatalf("rows not price-sorted: %v, %v", cols.Price(rows[0]), cols.Price(rows[1]))
	}
}

func TestBuildByAirportContainsExpectedRows(t *testing.T) {
	cols, hotels, pool := buildFixture(t)
	idx := Build(cols, hotels)

	fra := pool.Intern("FRA")
	bm := idx.Airport(fra)
	if bm == nil {
		t.Fatalf("expected FRA bitmap to exist")
	}
	if bm.GetCardinality() != 3 {
		t.Fatalf("FRA cardinality = %d, want 3", bm.GetCardinality())
	}
}

func TestBuildByPax(t *testing.T) {
	cols, hotels, _ := buildFixture(t)
	idx := Build(cols, hotels)

	bm := idx.Pax(2, 0)
	if bm == nil || bm.GetCardinality() != 3 {
		t.Fatalf("expected 3 rows for (2,0), got %v", bm)
	}
	bm2 := idx.Pax(1, 1)
	if bm2 == nil || bm2.GetCardinality() != 1 {
		t.Fatalf("expected 1 row for (1,1), got %v", bm2)
	}
}

func TestBuildByMonth(t *testing.T) {
	cols, hotels, _ := buildFixture(t)
	idx := Build(cols, hotels)

	key := MonthKeyFor(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	bm := idx.Month(key)
	if bm == nil || bm.GetCardinality() != 4 {
		t.Fatalf("expected 4 rows in June 2024 bucket, got %v", bm)
	}
}

func TestResolveSyntheticHotelGetsDenseIndexDuringBuild(t *testing.T) {
	pool := stringpool.New()
	cols := columnstore.New(0)
	hotels := hoteltable.New()
	hotels.Add(hoteltable.Hotel{ID: 1, Name: "Paradise"})
	fra := pool.Intern("FRA")
	cols.Append(columnstore.Offer{HotelID: 42, Price: 100, OutboundDepartAirport: fra})

	idx := Build(cols, hotels)
	entry := hotels.Resolve(42)
	if entry.HasCatalogEntry {
		t.Fatalf("expected synthetic entry for hotel 42")
	}
	rows := idx.ByHotel(entry.DenseIndex)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row indexed under synthetic hotel, got %d", len(rows))
	}
}
