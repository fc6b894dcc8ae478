package dto

// ComplianceSummary is the two-factor compliance payload for an institution.
// Rates, score and tier are omitted when the institution has no active
// students; a missing denominator is never rendered as 0%.
type ComplianceSummary struct {
	ActiveStudents    int    `json:"activeStudents"`
	WithActiveMentor  int    `json:"withActiveMentor"`
	WithJoiningLetter int    `json:"withJoiningLetter"`
	MentorRate        *int   `json:"mentorRate,omitempty"`
	JoiningLetterRate *int   `json:"joiningLetterRate,omitempty"`
	Score             *int   `json:"score,omitempty"`
	Tier              string `json:"tier,omitempty"`
}

// InstitutionCompliance pairs an institution with its compliance summary for
// ranking views.
type InstitutionCompliance struct {
	InstitutionID string            `json:"institutionId"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	District      string            `json:"district"`
	Compliance    ComplianceSummary `json:"compliance"`
}
