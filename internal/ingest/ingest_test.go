package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scrapbird/holidayfinder/internal/config"
	"github.com/stretchr/testify/require"
)

const hotelsCSV = "hotelid;hotelname;hotelstars\n" +
	"1;Paradise;4.0\n" +
	"2;Beach;3.5\n" +
	"3;Luxury;5.0\n"

const offersCSV = "hotelid,departuredate,returndate,countadults,countchildren,price,inbounddepartureairport,inboundarrivalairport,inboundarrivaldatetime,outbounddepartureairport,outboundarrivalairport,outboundarrivaldatetime,mealtype,oceanview,roomtype\n" +
	"1,2024-06-01,2024-06-08,2,0,1200,FRA,PMI,,FRA,PMI,,All-Inclusive,false,Standard\n" +
	"1,2024-06-02,2024-06-09,2,0,900,FRA,PMI,,FRA,PMI,,Half-Board,true,Deluxe\n" +
	"2,2024-07-05,2024-07-14,1,1,1500,MUC,AGP,,MUC,AGP,,All-Inclusive,false,Standard\n" +
	"3,2024-06-15,2024-06-22,2,0,2000,FRA,PMI,,FRA,PMI,,Breakfast,false,Standard\n" +
	"999,bad-date,2024-06-22,2,0,2000,FRA,PMI,,FRA,PMI,,Breakfast,false,Standard\n"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestIngestorRunProducesSnapshot(t *testing.T) {
	hotelsPath := writeTemp(t, "hotels.csv", hotelsCSV)
	offersPath := writeTemp(t, "offers.csv", offersCSV)

	cfg := config.Default()
	cfg.Paths.Hotels = hotelsPath
	cfg.Paths.Offers = offersPath
	cfg.Ingest.Workers = 2

	in := New(cfg, nil, nil)
	snap, err := in.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, snap.Stats.HotelsIngested)
	require.Equal(t, 4, snap.Stats.OffersIngested)
	require.Equal(t, 1, snap.Stats.OfferRowErrors) // bad-date row dropped
	require.EqualValues(t, 4, snap.Columns.Len())
}

func TestIngestorFatalOnMissingHotelSource(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Hotels = "/nonexistent/hotels.csv"
	cfg.Paths.Offers = "/nonexistent/offers.csv"

	in := New(cfg, nil, nil)
	_, err := in.Run(context.Background())
	require.Error(t, err)
}

func TestIngestorFatalOnZeroHotels(t *testing.T) {
	hotelsPath := writeTemp(t, "hotels.csv", "hotelid;hotelname;hotelstars\n")
	offersPath := writeTemp(t, "offers.csv", offersCSV)

	cfg := config.Default()
	cfg.Paths.Hotels = hotelsPath
	cfg.Paths.Offers = offersPath

	in := New(cfg, nil, nil)
	_, err := in.Run(context.Background())
	require.Error(t, err)
}

func TestIngestorWarnsOnZeroOffers(t *testing.T) {
	hotelsPath := writeTemp(t, "hotels.csv", hotelsCSV)
	offersPath := writeTemp(t, "offers.csv",
		"hotelid,departuredate,returndate,countadults,countchildren,price,inbounddepartureairport,inboundarrivalairport,inboundarrivaldatetime,outbounddepartureairport,outboundarrivalairport,outboundarrivaldatetime,mealtype,oceanview,roomtype\n")

	cfg := config.Default()
	cfg.Paths.Hotels = hotelsPath
	cfg.Paths.Offers = offersPath

	in := New(cfg, nil, nil)
	snap, err := in.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, snap.Stats.OffersIngested)
}

func TestParseOfferRowSynthesizesMissingArrival(t *testing.T) {
	rec := []string{
		"1", "2024-06-01", "2024-06-08", "2", "0", "1200",
		"FRA", "PMI", "", "FRA", "PMI", "", "All-Inclusive", "false", "Standard",
	}
	o, ok := parseOfferRow(rec)
	require.True(t, ok)
	require.Equal(t, o.OutboundDepartTS+2*60*60*1000, o.OutboundArriveTS)
	require.Equal(t, o.InboundDepartTS+2*60*60*1000, o.InboundArriveTS)
}

func TestParseOfferRowRejectsInvalidPrice(t *testing.T) {
	rec := []string{
		"1", "2024-06-01", "2024-06-08", "2", "0", "-5",
		"FRA", "PMI", "", "FRA", "PMI", "", "All-Inclusive", "false", "Standard",
	}
	_, ok := parseOfferRow(rec)
	require.False(t, ok)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in string
		want bool
	}{
		{"true", true}, {"True", true}, {"1", true}, {"yes", true}, {"YES", true},
		{"false", false}, {"0", false}, {"no", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		if got := parseBool(tt.in); got != tt.want {
			t.Errorf("parseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampMillisForms(t *testing.T) {
	tests := []struct {
		name string
		in string
		ok bool
	}{
		{"date only", "2024-06-01", true},
		{"date time space", "2024-06-01 10:30:00", true},
		{"date time T", "2024-06-01T10:30:00", true},
		{"with offset space", "2024-06-01 10:30:00+02:00", true},
		{"with offset T", "2024-06-01T10:30:00+02:00", true},
		{"garbage", "not-a-date", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseTimestampMillis(tt.in)
			if ok != tt.ok {
				t.Errorf("parseTimestampMillis(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
		})
	}
}
