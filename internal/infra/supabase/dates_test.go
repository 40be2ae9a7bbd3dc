package supabase

import (
	"testing"
	"time"
)

func TestParseDate_CivilAndTimestamp(t *testing.T) {
	got := parseDate("2024-06-15")
	if got.Year() != 2024 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("unexpected civil date: %v", got)
	}

	got = parseDate("2024-06-15T13:45:00Z")
	if got.Year() != 2024 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("unexpected timestamp date: %v", got)
	}

	if !parseDate("garbage").IsZero() {
		t.Error("unparseable input must yield the zero time")
	}
}

func TestFmtDate(t *testing.T) {
	d := time.Date(2024, time.February, 5, 23, 0, 0, 0, time.UTC)
	if got := fmtDate(d); got != "2024-02-05" {
		t.Errorf("expected 2024-02-05, got %s", got)
	}
}
