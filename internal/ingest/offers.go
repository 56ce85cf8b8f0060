package ingest

import (
	"math"
	"strconv"
	"strings"
)

// The col* constants document the column order of the offer source.
// Columns are accessed positionally after the header row is skipped.
const (
	colHotelID = 0
	colDepartureDate = 1 // outbound_depart_ts
	colReturnDate = 2 // inbound_depart_ts (return flight start)
	colCountAdults = 3
	colCountChildren = 4
	colPrice = 5
	colInboundDepartAirport = 6
	colInboundArriveAirport = 7
	colInboundArriveDatetime = 8
	colOutboundDepartAirport = 9
	colOutboundArriveAirport = 10
	colOutboundArriveDatetime = 11
	colMealType = 12
	colOceanView = 13
	colRoomType = 14
	offerColumnCount = 15
)

// rawOffer is a parsed-but-not-yet-interned offer row. Airport/meal/room
// strings are kept as plain strings here because StringPool.Intern is only
// safe to call from the single-threaded reducer — worker goroutines parse
// into rawOffer shards, and the reducer interns and appends them in order.
type rawOffer struct {
	HotelID uint32
	Price float32
	Adults uint8
	Children uint8
	OutboundDepartTS int64
	OutboundArriveTS int64
	InboundDepartTS int64
	InboundArriveTS int64
	OutboundDepartAirport string
	InboundDepartAirport string
	OutboundArriveAirport string
	InboundArriveAirport string
	MealType string
	RoomType string
	OceanView bool
}

// parseOfferRow validates and parses a single offer record: missing arrival
// timestamps are synthesized as depart+2h, and duration is always
// recomputed rather than read from the source.
func parseOfferRow(rec []string) (rawOffer, bool) {
	if len(rec) < offerColumnCount {
		return rawOffer{}, false
	}

	hotelID, err := strconv.ParseUint(strings.TrimSpace(rec[colHotelID]), 10, 32)
	if err != nil {
		return rawOffer{}, false
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(rec[colPrice]), 32)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return rawOffer{}, false
	}

	adults, err := strconv.ParseUint(strings.TrimSpace(rec[colCountAdults]), 10, 8)
	if err != nil || adults < 1 || adults > 10 {
		return rawOffer{}, false
	}
	children, err := strconv.ParseUint(strings.TrimSpace(rec[colCountChildren]), 10, 8)
	if err != nil || children > 10 {
		return rawOffer{}, false
	}

	outboundDepartTS, ok := parseTimestampMillis(rec[colDepartureDate])
	if !ok {
		return rawOffer{}, false
	}
	inboundDepartTS, ok := parseTimestampMillis(rec[colReturnDate])
	if !ok {
		return rawOffer{}, false
	}

	outboundArriveTS := synthesizeArrival(outboundDepartTS)
	if s := strings.TrimSpace(rec[colOutboundArriveDatetime]); s != "" {
		if ts, ok := parseTimestampMillis(s); ok {
			outboundArriveTS = ts
		} else {
			return rawOffer{}, false
		}
	}

	inboundArriveTS := synthesizeArrival(inboundDepartTS)
	if s := strings.TrimSpace(rec[colInboundArriveDatetime]); s != "" {
		if ts, ok := parseTimestampMillis(s); ok {
			inboundArriveTS = ts
		} else {
			return rawOffer{}, false
		}
	}

	return rawOffer{
		HotelID: uint32(hotelID),
		Price: float32(price),
		Adults: uint8(adults),
		Children: uint8(children),
		OutboundDepartTS: outboundDepartTS,
		OutboundArriveTS: outboundArriveTS,
		InboundDepartTS: inboundDepartTS,
		InboundArriveTS: inboundArriveTS,
		OutboundDepartAirport: normalizeAirport(rec[colOutboundDepartAirport]),
		InboundDepartAirport: normalizeAirport(rec[colInboundDepartAirport]),
		OutboundArriveAirport: normalizeAirport(rec[colOutboundArriveAirport]),
		InboundArriveAirport: normalizeAirport(rec[colInboundArriveAirport]),
		MealType: strings.TrimSpace(rec[colMealType]),
		RoomType: strings.TrimSpace(rec[colRoomType]),
		OceanView: parseBool(rec[colOceanView]),
	}, true
}

func normalizeAirport(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
