package ingest

import (
	"strings"
	"time"
)

// timestampLayouts are the exact forms the offer source accepts, tried in
// order. Unlike app/timestamps/parsing.go, which chains through dozens of
// speculative log-timestamp shapes because it must cope with arbitrary log
// formats, this ingestor's input contract is narrow and fixed — so the
// layout list is short and exact rather than a long speculative chain.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// parseTimestampMillis parses s into unix milliseconds using one of the
// forms of . Unknown formats fail the row.
func parseTimestampMillis(s string) (int64, bool) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return 0, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ss); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// synthesizeArrival implements : a missing arrival timestamp is
// depart + 2 hours.
func synthesizeArrival(departMs int64) int64 {
	return departMs + 2*time.Hour.Milliseconds()
}

// parseBool implements boolean contract: "true", "1", "yes"
// case-insensitively, everything else false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
