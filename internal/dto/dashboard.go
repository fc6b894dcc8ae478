package dto

// StateDashboardResponse captures the state-level aggregated dashboard.
type StateDashboardResponse struct {
	Institutions      int                     `json:"institutions"`
	ActiveStudents    int                     `json:"activeStudents"`
	ActiveInternships int                     `json:"activeInternships"`
	Overall           ComplianceSummary       `json:"overall"`
	TierCounts        map[string]int          `json:"tierCounts"`
	Ranking           []InstitutionCompliance `json:"ranking"`
}

// PrincipalDashboardResponse captures one institution's dashboard.
type PrincipalDashboardResponse struct {
	InstitutionID  string            `json:"institutionId"`
	Compliance     ComplianceSummary `json:"compliance"`
	OverdueReports int               `json:"overdueReports"`
	OverdueVisits  int               `json:"overdueVisits"`
	MissingLetters int               `json:"missingLetters"`
	Attention      []StudentFlag     `json:"attention"`
}

// StudentFlag marks a student needing principal attention.
type StudentFlag struct {
	StudentID      string `json:"studentId"`
	FullName       string `json:"fullName"`
	RegistrationNo string `json:"registrationNo"`
	Reason         string `json:"reason"`
}

// FacultyDashboardResponse captures a faculty member's visit workload.
type FacultyDashboardResponse struct {
	FacultyID        string           `json:"facultyId"`
	AssignedStudents int              `json:"assignedStudents"`
	PendingVisits    []PendingVisit   `json:"pendingVisits"`
	OverdueVisits    []PendingVisit   `json:"overdueVisits"`
	RecentVisits     []CompletedVisit `json:"recentVisits"`
}

// PendingVisit is a visit obligation awaiting completion.
type PendingVisit struct {
	InternshipID     string `json:"internshipId"`
	StudentName      string `json:"studentName"`
	OrganizationName string `json:"organizationName"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	DueDate          string `json:"dueDate"`
}

// CompletedVisit is a recently logged visit.
type CompletedVisit struct {
	InternshipID string `json:"internshipId"`
	StudentName  string `json:"studentName"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	VisitedAt    string `json:"visitedAt"`
}

// StudentDashboardResponse captures one student's internship progress.
type StudentDashboardResponse struct {
	StudentID        string                `json:"studentId"`
	InternshipID     *string               `json:"internshipId,omitempty"`
	OrganizationName *string               `json:"organizationName,omitempty"`
	HasJoiningLetter bool                  `json:"hasJoiningLetter"`
	Reports          ObligationProgress    `json:"reports"`
	Visits           ObligationProgress    `json:"visits"`
	ReportTimeline   []ReportTimelineEntry `json:"reportTimeline"`
	VisitTimeline    []VisitTimelineEntry  `json:"visitTimeline"`
	NextReportDue    *string               `json:"nextReportDue,omitempty"`
	NextVisitDue     *string               `json:"nextVisitDue,omitempty"`
}
