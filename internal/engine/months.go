package engine

import "time"

// Span is one student's internship date range, inclusive on both ends. The
// domain forbids concurrent internships per student, so a span uniquely
// identifies the student's active obligation window.
type Span struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// CountedMonth is a calendar month that contributes one reporting and one
// visiting obligation. It is derived, never persisted: recomputing is cheap
// and guarantees consistency if the span is edited.
type CountedMonth struct {
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	ActiveDays int        `json:"active_days"`
	First      bool       `json:"is_first"`
	Last       bool       `json:"is_last"`
}

// MonthKey identifies a calendar month when matching facts to obligations.
type MonthKey struct {
	Year  int
	Month time.Month
}

// PartitionMonths enumerates the calendar months touched by the span, in
// ascending order, and drops boundary months whose active day count does not
// exceed cfg.MinDaysForInclusion (strict boundary: exactly the minimum is
// excluded). Months strictly between the first and last are always included.
// A degenerate span (end before start) yields an empty result rather than an
// error, keeping the function total.
func PartitionMonths(span Span, cfg Config) []CountedMonth {
	start := dateOnly(span.Start)
	end := dateOnly(span.End)
	if end.Before(start) {
		return nil
	}

	months := make([]CountedMonth, 0, monthsBetween(start, end))
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		year, month := cursor.Year(), cursor.Month()
		first := year == start.Year() && month == start.Month()
		last := year == end.Year() && month == end.Month()

		var activeDays int
		switch {
		case first && last:
			activeDays = daysInclusive(start, end)
		case first:
			activeDays = daysInclusive(start, endOfMonth(year, month))
		case last:
			activeDays = daysInclusive(cursor, end)
		default:
			activeDays = lastDayOfMonth(year, month)
		}

		include := true
		if first || last {
			include = activeDays > cfg.MinDaysForInclusion
		}
		if include {
			months = append(months, CountedMonth{
				Year:       year,
				Month:      month,
				ActiveDays: activeDays,
				First:      first,
				Last:       last,
			})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

// Key returns the month's identity for fact lookups.
func (m CountedMonth) Key() MonthKey {
	return MonthKey{Year: m.Year, Month: m.Month}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInclusive(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}

// lastDayOfMonth resolves the exact calendar length of a month, leap years
// included: day zero of the following month normalizes backwards.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, lastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)
}

func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}
