package engine

import "time"

// Obligation carries the derived due dates for one counted month. One
// obligation exists per counted month; its ordinal position in the partition
// output is the canonical numbering for "Report 1", "Report 2" and so on.
type Obligation struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	ReportDue time.Time  `json:"report_due_date"`
	VisitDue  time.Time  `json:"visit_due_date"`
}

// DueDates derives the report and visit due dates for a counted month. The
// report is due on cfg.ReportDueDay of the following month (the year rolls
// over at December). The visit is due at the end of the last calendar day of
// the counted month, or of cfg.VisitDueDay when the month-end rule is off.
func DueDates(m CountedMonth, cfg Config) Obligation {
	// Month arithmetic normalizes: month 13 of year Y is January of Y+1.
	reportDue := time.Date(m.Year, m.Month+1, cfg.ReportDueDay, 0, 0, 0, 0, time.UTC)

	visitDay := cfg.VisitDueDay
	if cfg.VisitDueOnMonthEnd {
		visitDay = lastDayOfMonth(m.Year, m.Month)
	}
	visitDue := time.Date(m.Year, m.Month, visitDay, 23, 59, 59, 0, time.UTC)

	return Obligation{
		Year:      m.Year,
		Month:     m.Month,
		ReportDue: reportDue,
		VisitDue:  visitDue,
	}
}
