// Package normalize contains pure date normalization helpers for event
// records. Vision models routinely omit the year on flyer dates since a human
// infers "this year" from context; Date encodes that inference
// deterministically. "now" is always an explicit parameter so behavior is
// stable across year boundaries in tests.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tundeoj/snapsort/internal/record"
)

// maxFutureYears is how far ahead a parsed year may be before it is treated
// as model noise and replaced with the current year. The tolerance is a
// carried-over heuristic, not a calendar rule.
const maxFutureYears = 10

var (
	reYearFirst = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	reMonthDay  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})(?:\s|$)`)
	reMonthName = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// genericLayouts are tried last, for inputs the cheaper patterns miss.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2 2006",
	"01/02/2006",
}

// Date best-effort normalizes a human or model supplied date string to
// YYYY-MM-DD, using now's year when the input omits the year or carries an
// implausible one. Unrecognized input is returned trimmed but otherwise
// unchanged; Date never fails. Normalization is idempotent.
func Date(input string, now time.Time) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	// Already year-first: keep it unless the year is in the past or
	// unreasonably far in the future, in which case keep month/day and
	// substitute the current year.
	if m := reYearFirst.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if yearOutOfRange(year, now) {
			return formatDate(now.Year(), month, day)
		}
		return s
	}

	// MM-DD or MM/DD with the year missing entirely.
	if m := reMonthDay.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return formatDate(now.Year(), month, day)
	}

	// Month name (full or abbreviated) followed by a day number.
	if m := reMonthName.FindStringSubmatch(s); m != nil {
		month := monthIndex[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		return formatDate(now.Year(), month, day)
	}

	// Last resort: generic layouts.
	for _, layout := range genericLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := t.Year()
		if yearOutOfRange(year, now) {
			year = now.Year()
		}
		return formatDate(year, int(t.Month()), t.Day())
	}

	return s
}

// EventDates normalizes the date fields of an event record in place and
// defaults EndDate to Date when absent.
func EventDates(ev *record.EventData, now time.Time) {
	ev.Date = Date(ev.Date, now)
	if strings.TrimSpace(ev.EndDate) == "" {
		ev.EndDate = ev.Date
	} else {
		ev.EndDate = Date(ev.EndDate, now)
	}
}

func yearOutOfRange(year int, now time.Time) bool {
	return year < now.Year() || year > now.Year()+maxFutureYears
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
