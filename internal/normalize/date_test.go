package normalize

import (
	"testing"
	"time"

	"github.com/tundeoj/snapsort/internal/record"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestDate_YearCorrection(t *testing.T) {
	got := Date("2019-03-05", testNow)
	if got != "2025-03-05" {
		t.Fatalf("expected 2025-03-05, got %q", got)
	}
}

func TestDate_FarFutureYearCorrection(t *testing.T) {
	got := Date("2099-07-04", testNow)
	if got != "2025-07-04" {
		t.Fatalf("expected 2025-07-04, got %q", got)
	}
}

func TestDate_ReasonableYearUnchanged(t *testing.T) {
	for _, in := range []string{"2025-03-05", "2026-12-31", "2035-01-01"} {
		if got := Date(in, testNow); got != in {
			t.Fatalf("Date(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestDate_MonthDayExpansion(t *testing.T) {
	cases := map[string]string{
		"03-05": "2025-03-05",
		"3/5":   "2025-03-05",
		"12-01": "2025-12-01",
	}
	for in, want := range cases {
		if got := Date(in, testNow); got != want {
			t.Errorf("Date(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDate_MonthNameExpansion(t *testing.T) {
	cases := map[string]string{
		"Jan 15":      "2025-01-15",
		"january 15":  "2025-01-15",
		"Sept. 3":     "2025-09-03",
		"Friday Dec 5": "2025-12-05",
	}
	for in, want := range cases {
		if got := Date(in, testNow); got != want {
			t.Errorf("Date(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDate_GenericLayoutWithOutOfRangeYear(t *testing.T) {
	if got := Date("01/02/2019", testNow); got != "2025-01-02" {
		t.Fatalf("expected 2025-01-02, got %q", got)
	}
}

func TestDate_Idempotent(t *testing.T) {
	inputs := []string{"2025-03-05", "03-05", "Jan 15", "2019-03-05"}
	for _, in := range inputs {
		once := Date(in, testNow)
		twice := Date(once, testNow)
		if once != twice {
			t.Errorf("Date not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDate_UnrecognizedPassthrough(t *testing.T) {
	if got := Date("  next tuesday  ", testNow); got != "next tuesday" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
	if got := Date("", testNow); got != "" {
		t.Fatalf("expected empty for empty input, got %q", got)
	}
}

func TestEventDates_EndDateDefaults(t *testing.T) {
	ev := record.EventData{Title: "x", Date: "03-05", Time: "18:30"}
	EventDates(&ev, testNow)
	if ev.Date != "2025-03-05" {
		t.Fatalf("date: got %q", ev.Date)
	}
	if ev.EndDate != "2025-03-05" {
		t.Fatalf("endDate should default to date, got %q", ev.EndDate)
	}
}

func TestEventDates_ExplicitEndDateNormalized(t *testing.T) {
	ev := record.EventData{Title: "x", Date: "2025-03-05", Time: "09:00", EndDate: "03-06"}
	EventDates(&ev, testNow)
	if ev.EndDate != "2025-03-06" {
		t.Fatalf("endDate: got %q", ev.EndDate)
	}
}
