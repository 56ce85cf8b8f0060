package surface

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scrapbird/holidayfinder/internal/apperr"
	"github.com/scrapbird/holidayfinder/internal/query"
)

// parseBestPerHotelQuery translates the external query parameters into a
// query.Query for the best_per_hotel access path.
func parseBestPerHotelQuery(r *http.Request) (query.Query, error) {
	q, err := parseCommonParams(r)
	if err != nil {
		return query.Query{}, err
	}
	q.Mode = query.ModeBestPerHotel
	return q, nil
}

// parseHotelDetailQuery is parseBestPerHotelQuery plus the path-bound
// hotelId.
func parseHotelDetailQuery(r *http.Request) (query.Query, error) {
	q, err := parseCommonParams(r)
	if err != nil {
		return query.Query{}, err
	}
	q.Mode = query.ModeHotelDetail

	raw := chi.URLParam(r, "hotelId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return query.Query{}, apperr.WithDetails(
			apperr.New(apperr.KindValidation, "invalid query"),
			"hotelId: must be a positive integer")
	}
	q.HotelID = uint32(id)
	return q, nil
}

func parseCommonParams(r *http.Request) (query.Query, error) {
	v := r.URL.Query()
	var problems []string

	var airports []string
	if raw := strings.TrimSpace(v.Get("departureAirports")); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				airports = append(airports, a)
			}
		}
	}
	if len(airports) == 0 {
		problems = append(problems, "departureAirports: must be non-empty")
	}

	earliest, ok1 := parseDateParam(v.Get("earliestDepartureDate"))
	latest, ok2 := parseDateParam(v.Get("latestReturnDate"))
	if !ok1 {
		problems = append(problems, "earliestDepartureDate: must be YYYY-MM-DD")
	}
	if !ok2 {
		problems = append(problems, "latestReturnDate: must be YYYY-MM-DD")
	}

	duration, okD := parseUintParam(v.Get("duration"))
	if !okD || duration < 1 || duration > 365 {
		problems = append(problems, "duration: must be an integer in 1..=365")
	}

	adults, okA := parseUintParam(v.Get("countAdults"))
	if !okA || adults < 1 || adults > 10 {
		problems = append(problems, "countAdults: must be an integer in 1..=10")
	}

	children, okC := parseUintParam(v.Get("countChildren"))
	if !okC && v.Get("countChildren") != "" {
		problems = append(problems, "countChildren: must be an integer in 0..=10")
	}
	if v.Get("countChildren") == "" {
		children, okC = 0, true
	}
	if okC && children > 10 {
		problems = append(problems, "countChildren: must be an integer in 0..=10")
	}

	if len(problems) > 0 {
		return query.Query{}, apperr.WithDetails(apperr.New(apperr.KindValidation, "invalid query"), problems...)
	}

	return query.Query{
		DepartureAirports: airports,
		EarliestDepart: earliest,
		LatestReturn: latest,
		DurationNights: uint16(duration),
		Adults: uint8(adults),
		Children: uint8(children),
	}, nil
}

func parseDateParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseUintParam(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}
