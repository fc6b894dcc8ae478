package engine

import "time"

// ObligationKind selects which due date the expectation counter compares
// against the as-of date.
type ObligationKind string

const (
	KindReport ObligationKind = "report"
	KindVisit  ObligationKind = "visit"
)

// ExpectedCounts pairs the full-lifetime obligation count with the number of
// obligations whose due date has already passed. SoFar never exceeds Total
// and both are monotonic as the as-of date advances.
type ExpectedCounts struct {
	Total int `json:"expected_total"`
	SoFar int `json:"expected_so_far"`
}

// Expected computes obligation counts over months that survived partitioning.
// Total is known before the internship starts; SoFar counts only obligations
// whose due date is at or before asOf, which is what "X / Y this cycle"
// dashboard cards must show.
func Expected(months []CountedMonth, cfg Config, kind ObligationKind, asOf time.Time) ExpectedCounts {
	counts := ExpectedCounts{Total: len(months)}
	for _, m := range months {
		ob := DueDates(m, cfg)
		due := ob.ReportDue
		if kind == KindVisit {
			due = ob.VisitDue
		}
		if !due.After(asOf) {
			counts.SoFar++
		}
	}
	return counts
}
