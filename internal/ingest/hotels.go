package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/scrapbird/holidayfinder/internal/hoteltable"
)

// hotelHeader is the expected header row for the hotel source.
var hotelHeader = []string{"hotelid", "hotelname", "hotelstars"}

// parseHotels streams r (already decompressed) into table. It mirrors
// app/fileloader/csv.go's ReadCSVHeaderWithOptions/reader loop: open, read
// the header, then Read() row by row without ever materializing the whole
// file.
//
// A malformed row (parseHotelRow failure) is always counted and skipped; it
// never aborts the ingest, regardless of skipErrors — the same rule
// runOfferPipeline's worker loop applies to parseOfferRow failures. A
// structural CSV read error is a different class of failure and still
// respects skipErrors, matching the offer producer loop's handling of the
// same error class.
func parseHotels(r io.Reader, table *hoteltable.Table, skipErrors bool) (ingested int, rowErrors int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	_ = header // header row is skipped per ; columns are positional

	for {
		rec, rerr := cr.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			rowErrors++
			if skipErrors {
				continue
			}
			return ingested, rowErrors, rerr
		}
		if isBlankRow(rec) {
			continue
		}
		h, ok := parseHotelRow(rec)
		if !ok {
			rowErrors++
			continue
		}
		table.Add(h)
		ingested++
	}
	return ingested, rowErrors, nil
}

func parseHotelRow(rec []string) (hoteltable.Hotel, bool) {
	if len(rec) < 3 {
		return hoteltable.Hotel{}, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 32)
	if err != nil {
		return hoteltable.Hotel{}, false
	}
	name := strings.TrimSpace(rec[1])
	stars, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 32)
	if err != nil {
		return hoteltable.Hotel{}, false
	}
	if stars < 0 || stars > 5 {
		return hoteltable.Hotel{}, false
	}
	return hoteltable.Hotel{ID: uint32(id), Name: name, Stars: float32(stars)}, true
}

func isBlankRow(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
