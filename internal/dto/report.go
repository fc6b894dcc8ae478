package dto

// SaveReportDraftRequest describes payload for saving a monthly report draft.
type SaveReportDraftRequest struct {
	Year    int    `json:"year" validate:"required,min=2000,max=2100"`
	Month   int    `json:"month" validate:"required,min=1,max=12"`
	Summary string `json:"summary" validate:"required,max=5000"`
}

// SubmitReportRequest describes payload for submitting a monthly report.
// Submission approves the report and freezes its content.
type SubmitReportRequest struct {
	Year    int    `json:"year" validate:"required,min=2000,max=2100"`
	Month   int    `json:"month" validate:"required,min=1,max=12"`
	Summary string `json:"summary" validate:"required,max=5000"`
}

// RecordVisitRequest describes payload for logging a mentor visit.
type RecordVisitRequest struct {
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Month     int    `json:"month" validate:"required,min=1,max=12"`
	VisitedAt string `json:"visitedAt" validate:"required"`
	Notes     string `json:"notes" validate:"max=5000"`
}
