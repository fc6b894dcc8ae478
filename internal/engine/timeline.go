package engine

import "time"

// ReportTimeline runs the full per-student pipeline for reports: partition
// the span, derive due dates and classify each counted month against the
// facts keyed by (year, month). Months without a fact are classified from
// the due date and now alone.
func ReportTimeline(span Span, cfg Config, facts map[MonthKey]ReportFact, now time.Time) []ReportStatus {
	months := PartitionMonths(span, cfg)
	timeline := make([]ReportStatus, 0, len(months))
	for _, m := range months {
		ob := DueDates(m, cfg)
		var fact *ReportFact
		if f, ok := facts[m.Key()]; ok {
			fact = &f
		}
		timeline = append(timeline, ClassifyReport(ob, fact, cfg, now))
	}
	return timeline
}

// VisitTimeline mirrors ReportTimeline for mentor visits.
func VisitTimeline(span Span, cfg Config, facts map[MonthKey]VisitFact, now time.Time) []VisitStatus {
	months := PartitionMonths(span, cfg)
	timeline := make([]VisitStatus, 0, len(months))
	for _, m := range months {
		ob := DueDates(m, cfg)
		var fact *VisitFact
		if f, ok := facts[m.Key()]; ok {
			fact = &f
		}
		timeline = append(timeline, ClassifyVisit(ob, fact, now))
	}
	return timeline
}
