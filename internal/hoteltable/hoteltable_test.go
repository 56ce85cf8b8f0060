package hoteltable

import "testing"

func TestResolveKnownHotel(t *testing.T) {
	tbl := New()
	tbl.Add(Hotel{ID: 1, Name: "Paradise", Stars: 4.0})
	tbl.Add(Hotel{ID: 2, Name: "Beach", Stars: 3.5})

	e := tbl.Resolve(1)
	if !e.HasCatalogEntry {
		t.Fatalf("expected HasCatalogEntry = true for known hotel")
	}
	if e.Hotel.Name != "Paradise" || e.Hotel.Stars != 4.0 {
		t.Fatalf("unexpected hotel data: %+v", e.Hotel)
	}
	if e.DenseIndex != 0 {
		t.Fatalf("DenseIndex = %d, want 0", e.DenseIndex)
	}

	e2 := tbl.Resolve(2)
	if e2.DenseIndex != 1 {
		t.Fatalf("DenseIndex = %d, want 1", e2.DenseIndex)
	}
}

func TestResolveSyntheticHotelIsDeterministic(t *testing.T) {
	tbl := New()
	tbl.Add(Hotel{ID: 1, Name: "Paradise", Stars: 4.0})

	first := tbl.Resolve(999)
	if first.HasCatalogEntry {
		t.Fatalf("expected synthetic entry for unknown hotel id")
	}
	if first.Hotel.Name != "Hotel 999" {
		t.Fatalf("synthetic name = %q, want %q", first.Hotel.Name, "Hotel 999")
	}
	if first.Hotel.Stars < 3 || first.Hotel.Stars > 5 {
		t.Fatalf("synthetic stars out of [3,5]: %v", first.Hotel.Stars)
	}

	second := tbl.Resolve(999)
	if second != first {
		t.Fatalf("synthetic entry not stable across calls: %+v vs %+v", first, second)
	}
}

func TestIterKnownPreservesOrder(t *testing.T) {
	tbl := New()
	tbl.Add(Hotel{ID: 3, Name: "Luxury"})
	tbl.Add(Hotel{ID: 1, Name: "Paradise"})
	tbl.Add(Hotel{ID: 2, Name: "Beach"})

	var order []uint32
	tbl.IterKnown(func(h Hotel) { order = append(order, h.ID) })

	want := []uint32{3, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}
