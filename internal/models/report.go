package models

import "time"

// ReportStatus is the persisted monthly report status. Submission
// auto-approves; DRAFT and APPROVED are the only stored states, everything
// else (NOT_STARTED, OVERDUE) is derived at read time.
type ReportStatus string

const (
	ReportStatusDraft    ReportStatus = "DRAFT"
	ReportStatusApproved ReportStatus = "APPROVED"
)

// MonthlyReport is one month's internship report for a student.
type MonthlyReport struct {
	ID           string       `db:"id" json:"id"`
	InternshipID string       `db:"internship_id" json:"internship_id"`
	Year         int          `db:"year" json:"year"`
	Month        int          `db:"month" json:"month"`
	Summary      string       `db:"summary" json:"summary"`
	Status       ReportStatus `db:"status" json:"status"`
	SubmittedAt  *time.Time   `db:"submitted_at" json:"submitted_at,omitempty"`
	// Lateness is write-only telemetry: persisted when the engine computes
	// it at submission time, surfaced on timelines, never fed into scores.
	IsLateSubmission bool      `db:"is_late_submission" json:"is_late_submission"`
	DaysLate         int       `db:"days_late" json:"days_late"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
