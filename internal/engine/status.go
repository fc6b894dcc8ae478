package engine

import "time"

// ReportState is the closed set of monthly report states. Submission
// auto-approves; there is no separate review or rejection state.
type ReportState string

const (
	ReportNotStarted ReportState = "NOT_STARTED"
	ReportDraft      ReportState = "DRAFT"
	ReportApproved   ReportState = "APPROVED"
	ReportOverdue    ReportState = "OVERDUE"
)

// VisitState is the closed set of mentor visit states.
type VisitState string

const (
	VisitUpcoming  VisitState = "UPCOMING"
	VisitPending   VisitState = "PENDING"
	VisitCompleted VisitState = "COMPLETED"
	VisitOverdue   VisitState = "OVERDUE"
)

// ReportFact is read-only evidence about one month's report, owned by the
// report subsystem.
type ReportFact struct {
	Year        int
	Month       time.Month
	SubmittedAt *time.Time
	Draft       bool
}

// VisitFact is read-only evidence that a visit was logged for a month.
type VisitFact struct {
	Year        int
	Month       time.Month
	CompletedAt time.Time
}

// ReportStatus is the classifier's verdict for one report obligation. It is
// transient: callers decide whether to persist the lateness fields onto the
// submission record.
type ReportStatus struct {
	Obligation Obligation  `json:"obligation"`
	State      ReportState `json:"status"`
	IsLate     bool        `json:"is_late"`
	DaysLate   int         `json:"days_late"`
	InGrace    bool        `json:"in_grace"`
}

// VisitStatus is the classifier's verdict for one visit obligation.
type VisitStatus struct {
	Obligation Obligation `json:"obligation"`
	State      VisitState `json:"status"`
}

// ClassifyReport derives a report's status from its obligation, optional fact
// and the caller-supplied now. A submission timestamp wins over a leftover
// draft flag. Approval is terminal: reclassifying with a later now never
// changes the state. Exactly at the due date the report is not yet overdue.
func ClassifyReport(ob Obligation, fact *ReportFact, cfg Config, now time.Time) ReportStatus {
	status := ReportStatus{Obligation: ob}

	if fact != nil && fact.SubmittedAt != nil {
		status.State = ReportApproved
		if fact.SubmittedAt.After(ob.ReportDue) {
			status.IsLate = true
			status.DaysLate = daysLate(ob.ReportDue, *fact.SubmittedAt)
		}
		return status
	}
	if fact != nil && fact.Draft {
		status.State = ReportDraft
		return status
	}
	if now.After(ob.ReportDue) {
		status.State = ReportOverdue
		grace := ob.ReportDue.AddDate(0, 0, cfg.MissingReportGraceDays)
		status.InGrace = !now.After(grace)
		return status
	}
	status.State = ReportNotStarted
	return status
}

// ClassifyVisit derives a visit's status. A logged visit is terminal
// regardless of timing; visits have no grace period.
func ClassifyVisit(ob Obligation, fact *VisitFact, now time.Time) VisitStatus {
	status := VisitStatus{Obligation: ob}

	if fact != nil {
		status.State = VisitCompleted
		return status
	}
	monthStart := time.Date(ob.Year, ob.Month, 1, 0, 0, 0, 0, time.UTC)
	if now.Before(monthStart) {
		status.State = VisitUpcoming
		return status
	}
	if now.After(ob.VisitDue) {
		status.State = VisitOverdue
		return status
	}
	status.State = VisitPending
	return status
}

// daysLate floors the distance between the due date and the submission time
// to whole days, clamped at zero.
func daysLate(due, submitted time.Time) int {
	if !submitted.After(due) {
		return 0
	}
	return int(submitted.Sub(due).Hours() / 24)
}
