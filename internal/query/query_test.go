package query

import (
	"testing"
	"time"

	"github.com/scrapbird/holidayfinder/internal/apperr"
)

func validQuery() Query {
	return Query{
		DepartureAirports: []string{"FRA"},
		EarliestDepart: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		LatestReturn: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		DurationNights: 7,
		Adults: 2,
		Children: 0,
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validQuery().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsEqualDates(t *testing.T) {
	q := validQuery()
	q.LatestReturn = q.EarliestDepart
	err := q.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want KindValidation", apperr.KindOf(err))
	}
}

func TestValidateRejectsEmptyAirports(t *testing.T) {
	q := validQuery()
	q.DepartureAirports = nil
	if err := q.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateRejectsOutOfRangeDuration(t *testing.T) {
	for _, d := range []uint16{0, 366} {
		q := validQuery()
		q.DurationNights = d
		if err := q.Validate(); err == nil {
			t.Fatalf("duration %d: expected validation error", d)
		}
	}
}

func TestValidateRejectsOutOfRangePax(t *testing.T) {
	q := validQuery()
	q.Adults = 0
	if err := q.Validate(); err == nil {
		t.Fatal("expected validation error for zero adults")
	}

	q = validQuery()
	q.Children = 11
	if err := q.Validate(); err == nil {
		t.Fatal("expected validation error for children > 10")
	}
}

func TestCanonicalizeIgnoresAirportOrderAndCase(t *testing.T) {
	a := validQuery()
	a.DepartureAirports = []string{"FRA", "MUC"}

	b := validQuery()
	b.DepartureAirports = []string{"muc", "fra"}

	if a.Canonicalize() != b.Canonicalize() {
		t.Fatalf("canonical forms differ: %q vs %q", a.Canonicalize(), b.Canonicalize())
	}
}

func TestCanonicalizeDistinguishesModes(t *testing.T) {
	best := validQuery()
	best.Mode = ModeBestPerHotel

	detail := validQuery()
	detail.Mode = ModeHotelDetail
	detail.HotelID = 1

	if best.Canonicalize() == detail.Canonicalize() {
		t.Fatal("best and detail canonical forms must differ")
	}
}

func TestCanonicalizeDistinguishesHotelID(t *testing.T) {
	a := validQuery()
	a.Mode = ModeHotelDetail
	a.HotelID = 1

	b := validQuery()
	b.Mode = ModeHotelDetail
	b.HotelID = 2

	if a.Canonicalize() == b.Canonicalize() {
		t.Fatal("different hotel ids must produce different fingerprints")
	}
}
