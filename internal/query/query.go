// Package query implements the Query DTO and QueryPlanner: validation
// against the external contract, canonicalization for cache fingerprinting,
// and the plan→drive→probe/filter→group→sort→truncate state machine over an
// IndexSet.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/scrapbird/holidayfinder/internal/apperr"
)

// Mode selects which of the two QueryPlanner access paths to run.
type Mode int

const (
	ModeBestPerHotel Mode = iota
	ModeHotelDetail
)

// Query is the internal request shape; the surface adapter is responsible
// for translating external query parameters into one of these.
type Query struct {
	DepartureAirports []string // 3-letter codes, case-insensitive
	EarliestDepart time.Time // UTC midnight
	LatestReturn time.Time // UTC midnight, strictly after EarliestDepart
	DurationNights uint16 // 1..=365
	Adults uint8 // 1..=10
	Children uint8 // 0..=10
	Mode Mode
	HotelID uint32 // only meaningful when Mode == ModeHotelDetail
}

// Validate checks Query against the external contract's bounds, returning a
// VALIDATION_ERROR apperr listing every offending field.
func (q Query) Validate() error {
	var problems []string

	if len(q.DepartureAirports) == 0 {
		problems = append(problems, "departureAirports: must be non-empty")
	}
	for _, a := range q.DepartureAirports {
		if len(strings.TrimSpace(a)) != 3 {
			problems = append(problems, "departureAirports: \""+a+"\" is not a 3-letter code")
		}
	}

	if q.EarliestDepart.IsZero() || q.LatestReturn.IsZero() {
		problems = append(problems, "earliestDepartureDate/latestReturnDate: must be present")
	} else if !q.EarliestDepart.Before(q.LatestReturn) {
		problems = append(problems, "earliestDepartureDate: must be strictly before latestReturnDate")
	}

	if q.DurationNights < 1 || q.DurationNights > 365 {
		problems = append(problems, "duration: must be in 1..=365")
	}
	if q.Adults < 1 || q.Adults > 10 {
		problems = append(problems, "countAdults: must be in 1..=10")
	}
	if q.Children > 10 {
		problems = append(problems, "countChildren: must be in 0..=10")
	}

	if len(problems) > 0 {
		return apperr.WithDetails(apperr.New(apperr.KindValidation, "invalid query"), problems...)
	}
	return nil
}

// Canonicalize returns the deterministic canonical string used as the
// fingerprint input: lowercase and sorted departure airports, YYYY-MM-DD
// dates, and a mode discriminator (best vs detail:<hotel_id>), so that
// fingerprint(Q) == fingerprint(Q′) iff the two queries are semantically
// identical.
func (q Query) Canonicalize() string {
	airports := make([]string, len(q.DepartureAirports))
	for i, a := range q.DepartureAirports {
		airports[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(airports)

	var b strings.Builder
	b.WriteString(strings.Join(airports, ","))
	b.WriteByte('|')
	b.WriteString(q.EarliestDepart.UTC().Format("2006-01-02"))
	b.WriteByte('|')
	b.WriteString(q.LatestReturn.UTC().Format("2006-01-02"))
	b.WriteByte('|')
	b.WriteString(itoa(int(q.DurationNights)))
	b.WriteByte('|')
	b.WriteString(itoa(int(q.Adults)))
	b.WriteByte('|')
	b.WriteString(itoa(int(q.Children)))
	b.WriteByte('|')
	switch q.Mode {
	case ModeHotelDetail:
		b.WriteString("detail:")
		b.WriteString(itoa(int(q.HotelID)))
	default:
		b.WriteString("best")
	}
	return b.String()
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
