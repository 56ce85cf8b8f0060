package surface

import (
	"time"

	"github.com/scrapbird/holidayfinder/internal/query"
	"github.com/scrapbird/holidayfinder/internal/snapshot"
)

// hotelDTO is the {id,name,stars} shape embedded in both response bodies.
type hotelDTO struct {
	ID uint32 `json:"id"`
	Name string `json:"name"`
	Stars float32 `json:"stars"`
}

// bestPerHotelItemDTO is one element of the best-per-hotel JSON array.
type bestPerHotelItemDTO struct {
	Hotel hotelDTO `json:"hotel"`
	MinPrice float32 `json:"minPrice"`
	DepartureDate string `json:"departureDate"`
	ReturnDate string `json:"returnDate"`
	RoomType string `json:"roomType"`
	MealType string `json:"mealType"`
	CountAdults uint8 `json:"countAdults"`
	CountChildren uint8 `json:"countChildren"`
	Duration uint8 `json:"duration"`
	CountAvailableOffers int `json:"countAvailableOffers"`
}

// hotelDetailItemDTO is one element of hotel-detail's items[]:
// full departure/arrival airports and ISO-8601 date-times, room type, meal
// type, ocean-view flag, and price. The outbound-departure field name keeps
// its documented (sic) spelling for wire compatibility.
type hotelDetailItemDTO struct {
	Price float32 `json:"price"`
	OutbundDepartureDatetime string `json:"outbundDepartureDatetime"`
	OutboundArrivalDatetime string `json:"outboundArrivalDatetime"`
	InboundDepartureDatetime string `json:"inboundDepartureDatetime"`
	InboundArrivalDatetime string `json:"inboundArrivalDatetime"`
	OutboundDepartureAirport string `json:"outboundDepartureAirport"`
	OutboundArrivalAirport string `json:"outboundArrivalAirport"`
	InboundDepartureAirport string `json:"inboundDepartureAirport"`
	InboundArrivalAirport string `json:"inboundArrivalAirport"`
	RoomType string `json:"roomType"`
	MealType string `json:"mealType"`
	OceanView bool `json:"oceanView"`
}

type hotelDetailResponseDTO struct {
	Hotel hotelDTO `json:"hotel"`
	Items []hotelDetailItemDTO `json:"items"`
}

// errorEnvelopeDTO is the standard error envelope.
type errorEnvelopeDTO struct {
	Error errorBodyDTO `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

type errorBodyDTO struct {
	Code string `json:"code"`
	Message string `json:"message"`
	Details []string `json:"details,omitempty"`
}

func dateOf(unixMs int64) string {
	return time.UnixMilli(unixMs).UTC().Format("2006-01-02")
}

func isoOf(unixMs int64) string {
	return time.UnixMilli(unixMs).UTC().Format(time.RFC3339)
}

func bestPerHotelToDTO(s *snapshot.Snapshot, rows []query.BestPerHotelRow) []bestPerHotelItemDTO {
	out := make([]bestPerHotelItemDTO, len(rows))
	for i, row := range rows {
		r := row.Row
		out[i] = bestPerHotelItemDTO{
			Hotel: hotelDTO{ID: row.Hotel.ID, Name: row.Hotel.Name, Stars: row.Hotel.Stars},
			MinPrice: row.Price,
			DepartureDate: dateOf(s.Columns.OutboundDepartTS(r)),
			ReturnDate: dateOf(s.Columns.InboundDepartTS(r)),
			RoomType: s.Pool.Resolve(s.Columns.RoomType(r)),
			MealType: s.Pool.Resolve(s.Columns.MealType(r)),
			CountAdults: s.Columns.Adults(r),
			CountChildren: s.Columns.Children(r),
			Duration: s.Columns.DurationNights(r),
			CountAvailableOffers: row.AvailableCount,
		}
	}
	return out
}

func hotelDetailToDTO(s *snapshot.Snapshot, res *query.HotelDetailResult) hotelDetailResponseDTO {
	items := make([]hotelDetailItemDTO, len(res.Rows))
	for i, r := range res.Rows {
		items[i] = hotelDetailItemDTO{
			Price: s.Columns.Price(r),
			OutbundDepartureDatetime: isoOf(s.Columns.OutboundDepartTS(r)),
			OutboundArrivalDatetime: isoOf(s.Columns.OutboundArriveTS(r)),
			InboundDepartureDatetime: isoOf(s.Columns.InboundDepartTS(r)),
			InboundArrivalDatetime: isoOf(s.Columns.InboundArriveTS(r)),
			OutboundDepartureAirport: s.Pool.Resolve(s.Columns.OutboundDepartAirport(r)),
			OutboundArrivalAirport: s.Pool.Resolve(s.Columns.OutboundArriveAirport(r)),
			InboundDepartureAirport: s.Pool.Resolve(s.Columns.InboundDepartAirport(r)),
			InboundArrivalAirport: s.Pool.Resolve(s.Columns.InboundArriveAirport(r)),
			RoomType: s.Pool.Resolve(s.Columns.RoomType(r)),
			MealType: s.Pool.Resolve(s.Columns.MealType(r)),
			OceanView: s.Columns.OceanView(r),
		}
	}
	return hotelDetailResponseDTO{
		Hotel: hotelDTO{ID: res.Hotel.ID, Name: res.Hotel.Name, Stars: res.Hotel.Stars},
		Items: items,
	}
}
