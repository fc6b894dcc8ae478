package dto

// ReportTimelineEntry is one counted month on a student's report timeline.
type ReportTimelineEntry struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	DueDate  string `json:"dueDate"`
	State    string `json:"state"`
	IsLate   bool   `json:"isLate"`
	DaysLate int    `json:"daysLate"`
	InGrace  bool   `json:"inGrace"`
}

// VisitTimelineEntry is one counted month on a student's visit timeline.
type VisitTimelineEntry struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	DueDate string `json:"dueDate"`
	State   string `json:"state"`
}

// ObligationProgress compares completed obligations against the engine's
// expectation for the elapsed portion of the internship.
type ObligationProgress struct {
	Total     int `json:"total"`
	SoFar     int `json:"soFar"`
	Completed int `json:"completed"`
}
