package columnstore

import "testing"

func TestAppendRoundTrips(t *testing.T) {
	s := New(0)
	o := Offer{
		HotelID: 7,
		Price: 199.5,
		Adults: 2,
		Children: 1,
		OutboundDepartTS: 1_700_000_000_000,
		InboundDepartTS: 1_700_600_800_000,
		OutboundDepartAirport: 3,
		OceanView: true,
		DurationNights: DeriveDurationNights(1_700_000_000_000, 1_700_600_800_000),
	}
	id := s.Append(o)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.HotelID(id) != o.HotelID {
		t.Fatalf("HotelID mismatch")
	}
	if s.Price(id) != o.Price {
		t.Fatalf("Price mismatch")
	}
	if !s.OceanView(id) {
		t.Fatalf("OceanView mismatch: want true")
	}
	if s.DurationNights(id) != o.DurationNights {
		t.Fatalf("DurationNights mismatch")
	}
}

func TestOceanViewBitPackingAcrossWords(t *testing.T) {
	s := New(0)
	var ids []RowID
	for i := 0; i < 200; i++ {
		ids = append(ids, s.Append(Offer{OceanView: i%3 == 0}))
	}
	for i, id := range ids {
		want := i%3 == 0
		if got := s.OceanView(id); got != want {
			t.Fatalf("row %d: OceanView() = %v, want %v", i, got, want)
		}
	}
}

func TestDeriveDurationNights(t *testing.T) {
	tests := []struct {
		name string
		outboundDepart, inboundDepart int64
		want uint8
	}{
		{name: "exactly 7 nights", outboundDepart: 0, inboundDepart: 7 * 86_400_000, want: 7},
		{name: "partial day floors down", outboundDepart: 0, inboundDepart: 7*86_400_000 + 1000, want: 7},
		{name: "same day", outboundDepart: 0, inboundDepart: 0, want: 0},
		{name: "negative span clamps to zero", outboundDepart: 86_400_000, inboundDepart: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDurationNights(tt.outboundDepart, tt.inboundDepart)
			if got != tt.want {
				t.Fatalf("DeriveDurationNights() = %d, want %d", got, tt.want)
			}
		})
	}
}
